package predict

import (
	"context"
	"errors"
)

// Probe reports model availability for the health endpoint.
type Probe struct {
	svc *Service
}

// NewProbe wraps a prediction service as a health probe.
func NewProbe(svc *Service) *Probe {
	return &Probe{svc: svc}
}

// Name implements the health probe contract.
func (p *Probe) Name() string { return "model" }

// Check fails while no model artifact is loaded.
func (p *Probe) Check(_ context.Context) error {
	if p.svc == nil || !p.svc.Ready() {
		return errors.New("model not loaded")
	}
	return nil
}
