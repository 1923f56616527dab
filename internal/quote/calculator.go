package quote

import (
	"context"
	"errors"
	"sync"

	"github.com/Simplici0/decoquote/internal/catalog"
	"github.com/Simplici0/decoquote/internal/pricing"
)

// Inputs are the editable fields of the full quote builder.
type Inputs struct {
	Quantity int             `json:"quantity"`
	Baseline float64         `json:"baseline,omitempty"`
	Units    float64         `json:"units,omitempty"`
	Addons   []pricing.Addon `json:"addons,omitempty"`
}

// SetAddon replaces the addon with the same ID or appends it.
func (in *Inputs) SetAddon(a pricing.Addon) {
	for i := range in.Addons {
		if in.Addons[i].ID == a.ID {
			in.Addons[i] = a
			return
		}
	}
	in.Addons = append(in.Addons, a)
}

// Request converts the inputs to a pricing request.
func (in Inputs) Request() pricing.Request {
	return pricing.Request{
		Quantity: in.Quantity,
		Baseline: in.Baseline,
		Units:    in.Units,
		Addons:   append([]pricing.Addon(nil), in.Addons...),
	}
}

// Result is what subscribers see after every recompute. On failure Breakdown
// is zero and Err is set; Unavailable marks the retryable upstream case.
type Result struct {
	Inputs      Inputs
	Breakdown   pricing.Breakdown
	Unavailable bool
	Err         error
}

// OK reports whether the result carries a price.
func (r Result) OK() bool { return r.Err == nil }

// Calculator is one product view of the full quote builder. Every input
// change goes through Update, which recomputes the whole price and notifies
// subscribers before the next update can start.
type Calculator struct {
	pricer *Pricer
	style  string
	method pricing.Method

	mu     sync.Mutex
	inputs Inputs
	last   Result
	subs   map[int]func(Result)
	nextID int
}

// NewCalculator starts a view for style and method with initial inputs.
func NewCalculator(pricer *Pricer, style string, method pricing.Method, initial Inputs) *Calculator {
	return &Calculator{
		pricer: pricer,
		style:  catalog.NormalizeStyle(style),
		method: method,
		inputs: initial,
		subs:   make(map[int]func(Result)),
	}
}

// Subscribe registers fn for every future result and returns a function that
// removes it. fn runs while the calculator is locked and must not call Update.
func (c *Calculator) Subscribe(fn func(Result)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Update applies fn to the inputs, recomputes and notifies subscribers. A nil
// fn recomputes the current inputs.
func (c *Calculator) Update(ctx context.Context, fn func(*Inputs)) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.inputs
	next.Addons = append([]pricing.Addon(nil), c.inputs.Addons...)
	if fn != nil {
		fn(&next)
	}
	c.inputs = next

	res := Result{Inputs: next}
	b, err := c.pricer.Price(ctx, c.style, c.method, next.Request())
	if err != nil {
		res.Err = err
		res.Unavailable = errors.Is(err, catalog.ErrUpstreamFetch)
	} else {
		res.Breakdown = b
	}
	c.last = res

	for _, fn := range c.subs {
		fn(res)
	}
	return res
}

// Result returns the latest result.
func (c *Calculator) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Inputs returns a copy of the current inputs.
func (c *Calculator) Inputs() Inputs {
	c.mu.Lock()
	defer c.mu.Unlock()
	in := c.inputs
	in.Addons = append([]pricing.Addon(nil), c.inputs.Addons...)
	return in
}
