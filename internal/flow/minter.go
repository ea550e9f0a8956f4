package flow

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/0STG0T/t1-solution-2/pkg/api"
)

type (
	// IDMinter hands out item IDs. An ID is never handed out twice, so
	// identity stays decoupled from position and survives deletes
	IDMinter interface {
		Mint() api.ItemID
	}

	// CounterMinter mints increasing decimal IDs from a counter that lives
	// outside the collection
	CounterMinter struct {
		last atomic.Int64
	}

	// UUIDMinter mints random UUIDs
	UUIDMinter struct{}

	// IDScheme selects an IDMinter implementation
	IDScheme string
)

const (
	IDSchemeUUID    IDScheme = "uuid"
	IDSchemeCounter IDScheme = "counter"
)

var (
	_ IDMinter = (*CounterMinter)(nil)
	_ IDMinter = UUIDMinter{}
)

// NewCounterMinter creates a minter whose first ID is start+1
func NewCounterMinter(start int64) *CounterMinter {
	m := &CounterMinter{}
	m.last.Store(start)
	return m
}

func (m *CounterMinter) Mint() api.ItemID {
	return api.ItemID(strconv.FormatInt(m.last.Add(1), 10))
}

func (UUIDMinter) Mint() api.ItemID {
	return api.ItemID(uuid.NewString())
}

// Valid reports whether the scheme names a known minter
func (s IDScheme) Valid() bool {
	return s == IDSchemeUUID || s == IDSchemeCounter
}

// NewMinter creates a fresh minter for the scheme
func NewMinter(scheme IDScheme) (IDMinter, error) {
	switch scheme {
	case IDSchemeUUID, "":
		return UUIDMinter{}, nil
	case IDSchemeCounter:
		return NewCounterMinter(0), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownIDScheme, scheme)
	}
}
