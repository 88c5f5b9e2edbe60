package gconf

import (
	"reflect"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x"
)

// UpdateConfigurationHandler replaces a stored configuration with the one
// carried in the "Patch" field of a message.
type UpdateConfigurationHandler struct {
	pkg    string
	config OwnedConfig
	auth   x.Authenticator
}

var _ crowdsale.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler that processes
// configuration update messages. Each message must be authorized by the
// current configuration owner.
//
// The configuration in the message replaces the stored one. A message that
// does not declare an owner keeps the current one.
//
// config is used only to learn the configuration type and must be a pointer.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: config,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	if _, err := h.apply(ctx, store, tx); err != nil {
		return nil, err
	}
	return &crowdsale.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	conf, err := h.apply(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	crowdsale.GetLogger(ctx).Info("configuration updated", "pkg", h.pkg, "owner", conf.GetOwner())
	return &crowdsale.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) apply(ctx crowdsale.Context, store crowdsale.KVStore, tx crowdsale.Tx) (OwnedConfig, error) {
	current := h.fresh()
	if err := Load(store, h.pkg, current); err != nil {
		return nil, errors.Wrap(err, "load current configuration")
	}
	owner := current.GetOwner()
	if owner == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner did not authorize the change")
	}

	next, err := patchPayload(tx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message payload")
	}
	if reflect.TypeOf(next) != reflect.TypeOf(current) {
		return nil, errors.Wrapf(errors.ErrType, "configuration %T cannot replace %T", next, current)
	}
	if next.GetOwner() == nil {
		setOwner(next, owner)
	}
	if err := Save(store, h.pkg, next); err != nil {
		return nil, errors.Wrap(err, "cannot save updated config")
	}
	return next, nil
}

// fresh returns a new zero instance of the handled configuration type.
func (h UpdateConfigurationHandler) fresh() OwnedConfig {
	return reflect.New(reflect.TypeOf(h.config).Elem()).Interface().(OwnedConfig)
}

// setOwner assigns the "Owner" field of a configuration.
func setOwner(conf OwnedConfig, owner crowdsale.Address) {
	f := reflect.ValueOf(conf).Elem().FieldByName("Owner")
	if f.IsValid() && f.CanSet() {
		f.Set(reflect.ValueOf(owner))
	}
}

// patchPayload expects the transaction to have a message with a "Patch"
// field holding the configuration.
func patchPayload(tx crowdsale.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr || field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
