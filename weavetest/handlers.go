package weavetest

import "github.com/mixbytes/crowdsale"

// Handler is a mock handler returning preset results and counting the calls.
type Handler struct {
	calls
	CheckResult   crowdsale.CheckResult
	CheckErr      error
	DeliverResult crowdsale.DeliverResult
	DeliverErr    error
}

var _ crowdsale.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	h.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	h.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// WriteHandler writes a key/value pair to the store before returning Err.
type WriteHandler struct {
	Key, Value []byte
	Err        error
}

var _ crowdsale.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &crowdsale.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &crowdsale.DeliverResult{}, h.Err
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

var _ crowdsale.Handler = PanicHandler{}

func (h PanicHandler) Check(crowdsale.Context, crowdsale.KVStore, crowdsale.Tx) (*crowdsale.CheckResult, error) {
	panic(h.Msg)
}

func (h PanicHandler) Deliver(crowdsale.Context, crowdsale.KVStore, crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	panic(h.Msg)
}
