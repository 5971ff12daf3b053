package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"pizza-store/internal/apperr"
	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
)

// LineReader is the interactive input side of the order flow. Both methods
// re-prompt internally on unreadable input and return an error only when
// the input stream itself ends or breaks.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	ReadInt(prompt string) (int, error)
}

// Phase is a step of the order placement state machine.
type Phase int

const (
	PhaseSelectingStore Phase = iota
	PhaseBuildingCart
	PhaseCheckout
	PhaseCommitted
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectingStore:
		return "selecting_store"
	case PhaseBuildingCart:
		return "building_cart"
	case PhaseCheckout:
		return "checkout"
	case PhaseCommitted:
		return "committed"
	}
	return "unknown"
}

// phaseNext defines the only legal step out of each phase. There are no
// backward transitions; SelectingStore may instead cancel out entirely.
var phaseNext = map[Phase]Phase{
	PhaseSelectingStore: PhaseBuildingCart,
	PhaseBuildingCart:   PhaseCheckout,
	PhaseCheckout:       PhaseCommitted,
}

// Next returns the phase that follows p, if any.
func (p Phase) Next() (Phase, bool) {
	n, ok := phaseNext[p]
	return n, ok
}

// SequenceReader reports the last in-session value of a store sequence.
type SequenceReader interface {
	SequenceCurrentValue(ctx context.Context, sequence string) (int64, error)
}

const (
	orderIDSequence    = "foodorder_orderid_seq"
	initialOrderStatus = "placed"
)

// OrderFlow drives cart building and checkout for one session.
type OrderFlow struct {
	stores  repository.Stores
	catalog repository.Catalog
	orders  repository.Orders
	seq     SequenceReader // optional
	events  *Events        // optional
	lg      *logger.Logger
	now     func() time.Time
}

func NewOrderFlow(
	stores repository.Stores,
	catalog repository.Catalog,
	orders repository.Orders,
	seq SequenceReader,
	events *Events,
	lg *logger.Logger,
) *OrderFlow {
	return &OrderFlow{
		stores:  stores,
		catalog: catalog,
		orders:  orders,
		seq:     seq,
		events:  events,
		lg:      lg,
		now:     time.Now,
	}
}

// Run walks the caller through store selection, cart building and checkout.
// It returns the committed order, or nil when the caller backed out of
// store selection without ordering.
func (f *OrderFlow) Run(ctx context.Context, s Session, in LineReader, out io.Writer) (*domain.Order, error) {
	phase := PhaseSelectingStore

	storeID, selected, err := f.selectStore(ctx, in, out)
	if err != nil {
		return nil, err
	}
	if !selected {
		return nil, nil
	}
	phase, _ = phase.Next()

	cart, err := f.buildCart(ctx, in, out)
	if err != nil {
		return nil, err
	}
	phase, _ = phase.Next()

	order, err := f.checkout(ctx, s, storeID, cart, out)
	if err != nil {
		return nil, err
	}
	phase, _ = phase.Next()

	f.lg.Info("order_flow_done", map[string]any{
		"phase":    phase.String(),
		"order_id": order.ID,
		"login":    s.Login,
	})
	return order, nil
}

// selectStore lists the stores and reads a storeID from the displayed set.
// One past the highest displayed ID is the go-back sentinel. Invalid input
// re-prompts without bound.
func (f *OrderFlow) selectStore(ctx context.Context, in LineReader, out io.Writer) (int, bool, error) {
	stores, err := f.stores.List(ctx)
	if err != nil {
		return 0, false, err
	}
	if len(stores) == 0 {
		fmt.Fprintln(out, "No stores are available right now.")
		return 0, false, nil
	}

	fmt.Fprintln(out, "---------")
	fmt.Fprintln(out, "From what store would you like to order?")
	valid := make(map[int]string, len(stores))
	sentinel := 0
	for _, st := range stores {
		valid[st.ID] = st.Address
		if st.ID >= sentinel {
			sentinel = st.ID + 1
		}
		fmt.Fprintf(out, "%d - %s\n", st.ID, st.Address)
	}
	fmt.Fprintf(out, "%d. Go back\n", sentinel)

	for {
		choice, err := in.ReadInt("Please make your choice: ")
		if err != nil {
			return 0, false, err
		}
		if choice == sentinel {
			return 0, false, nil
		}
		addr, ok := valid[choice]
		if !ok {
			fmt.Fprintln(out, "Invalid option!")
			continue
		}
		fmt.Fprintf(out, "You have selected the store located at %s\n", addr)
		return choice, true, nil
	}
}

// buildCart accumulates line items until the caller declines to continue.
// An unknown item re-prompts for another item; a non-positive quantity
// re-prompts for the quantity, keeping the already-validated item.
func (f *OrderFlow) buildCart(ctx context.Context, in LineReader, out io.Writer) ([]domain.CartLine, error) {
	var cart []domain.CartLine
	for {
		fmt.Fprintln(out, "---------")
		name, err := in.ReadLine("Select what item you want to order: ")
		if err != nil {
			return nil, err
		}
		item, err := f.catalog.Get(ctx, name)
		if errors.Is(err, apperr.ErrNotFound) {
			fmt.Fprintln(out, "Sorry, that item is not part of the menu.")
			continue
		}
		if err != nil {
			return nil, err
		}

		var qty int
		for {
			qty, err = in.ReadInt(fmt.Sprintf("How many %s: ", item.Name))
			if err != nil {
				return nil, err
			}
			if qty > 0 {
				break
			}
			fmt.Fprintln(out, "Quantity must be a positive number.")
		}

		lineTotal := item.Price * float64(qty)
		cart = append(cart, domain.CartLine{Quantity: qty, ItemName: item.Name, LineTotal: lineTotal})
		fmt.Fprintf(out, "You are ordering %d %s for %.2f$\n", qty, item.Name, lineTotal)

		more, err := f.askContinue(in, out)
		if err != nil {
			return nil, err
		}
		if !more {
			return cart, nil
		}
	}
}

func (f *OrderFlow) askContinue(in LineReader, out io.Writer) (bool, error) {
	for {
		fmt.Fprintln(out, "---------")
		fmt.Fprintln(out, "Keep on ordering?")
		fmt.Fprintln(out, "1. YES")
		fmt.Fprintln(out, "2. NO")
		choice, err := in.ReadInt("Please make your choice: ")
		if err != nil {
			return false, err
		}
		switch choice {
		case 1:
			return true, nil
		case 2:
			return false, nil
		default:
			fmt.Fprintln(out, "Invalid choice!")
		}
	}
}

// checkout prints the itemized summary and commits the header plus every
// line in a single transaction. The generated order ID comes back from the
// insert itself, never from re-querying recent orders.
func (f *OrderFlow) checkout(ctx context.Context, s Session, storeID int, cart []domain.CartLine, out io.Writer) (*domain.Order, error) {
	total := domain.CartTotal(cart)

	fmt.Fprintln(out, "---------")
	fmt.Fprintln(out, "Order summary:")
	for _, line := range cart {
		fmt.Fprintf(out, "Quantity: %d, Item: %s, Price: %.2f\n", line.Quantity, line.ItemName, line.LineTotal)
	}
	fmt.Fprintf(out, "Checkout: %.2f$\n", total)

	order := domain.Order{
		Login:      s.Login,
		StoreID:    storeID,
		TotalPrice: total,
		Timestamp:  f.now().UTC(),
		Status:     initialOrderStatus,
	}
	id, err := f.orders.Create(ctx, order, cart)
	if err != nil {
		f.lg.Error("order_commit", err, map[string]any{"login": s.Login, "store_id": storeID})
		return nil, err
	}
	order.ID = id

	f.lg.Info("order_committed", map[string]any{
		"order_id": id,
		"login":    s.Login,
		"store_id": storeID,
		"total":    total,
		"items":    len(cart),
	})
	if f.seq != nil {
		if v, err := f.seq.SequenceCurrentValue(ctx, orderIDSequence); err == nil {
			f.lg.Debug("order_sequence", map[string]any{"currval": v, "order_id": id})
		}
	}

	fmt.Fprintf(out, "Order %d placed.\n", id)
	f.events.OrderPlaced(ctx, order, cart)
	return &order, nil
}
