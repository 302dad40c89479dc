package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/example/shiptrack/internal/core/scanner"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// ScanMode selects what a decoded scan means.
type ScanMode string

const (
	ScanModeShipment ScanMode = "shipment" // resolve and open a shipment
	ScanModeBilling  ScanMode = "billing"  // open a billing in the current shipment
	ScanModeItem     ScanMode = "item"     // add an item to the active billing
)

// ParseScanMode parses a mode name.
func ParseScanMode(s string) (ScanMode, error) {
	switch m := ScanMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ScanModeShipment, ScanModeBilling, ScanModeItem:
		return m, nil
	}
	return "", fmt.Errorf("unknown scan mode %q (want shipment, billing or item)", s)
}

// ScanOutcome reports what happened to one decoded scan.
type ScanOutcome struct {
	Code     string
	Mode     ScanMode
	Shipment *primary.Shipment
	Kind     string // resolution kind for shipment and billing scans
	Billing  *primary.BillingResolution
	Item     *primary.ScanItemResponse
	Err      error

	// Pending is set when the scan resolved to a new shipment, a new
	// billing or a reopen. Nothing was committed; the next scan confirms
	// or cancels it.
	Pending bool

	// Cancelled is set when the operator declined a pending resolution.
	Cancelled bool
}

// pendingScan is a resolution waiting for operator confirmation.
type pendingScan struct {
	mode ScanMode
	code string
	kind string
}

// ScanSessionConfig configures a ScanSession.
type ScanSessionConfig struct {
	Mode               ScanMode
	Timeout            time.Duration
	AuditRetentionDays int    // 0 disables the prune job
	AuditPruneSchedule string // cron spec
	Clock              scanner.Clock
}

// ScanSession binds a scan decoder to a key source and routes every
// decoded scan to the shipment, billing or item flow. New shipments, new
// billings and reopened billings are only committed once the operator
// confirms by scanning the same code again or typing y; n cancels, and any
// other scan abandons the pending resolution. A successful shipment scan
// advances to billing mode, and a successful billing scan
// advances to item mode.
type ScanSession struct {
	shipments primary.ShipmentService
	billings  primary.BillingService
	items     primary.ItemService
	audit     primary.AuditService
	cfg       ScanSessionConfig
	onOutcome func(ScanOutcome)
	logger    *zap.Logger

	mu      sync.Mutex
	mode    ScanMode
	pending *pendingScan
}

// NewScanSession creates a new ScanSession. onOutcome is called once per
// decoded scan, on the goroutine running Run.
func NewScanSession(
	shipments primary.ShipmentService,
	billings primary.BillingService,
	items primary.ItemService,
	audit primary.AuditService,
	cfg ScanSessionConfig,
	onOutcome func(ScanOutcome),
	logger *zap.Logger,
) *ScanSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mode == "" {
		cfg.Mode = ScanModeShipment
	}
	return &ScanSession{
		shipments: shipments,
		billings:  billings,
		items:     items,
		audit:     audit,
		cfg:       cfg,
		onOutcome: onOutcome,
		logger:    logger,
		mode:      cfg.Mode,
	}
}

// Mode returns the current scan mode.
func (s *ScanSession) Mode() ScanMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *ScanSession) setMode(m ScanMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// Run reads keys from source until it is exhausted, ctx is cancelled, or
// the operator presses Escape or Ctrl+C. The decoder is disarmed before Run
// returns.
func (s *ScanSession) Run(ctx context.Context, source secondary.KeySource) error {
	pruner, err := s.startPruner(ctx)
	if err != nil {
		return err
	}
	if pruner != nil {
		defer pruner.Stop()
	}

	opts := []scanner.Option{scanner.WithTimeout(s.cfg.Timeout)}
	if s.cfg.Clock != nil {
		opts = append(opts, scanner.WithClock(s.cfg.Clock))
	}
	decoder := scanner.NewDecoder(func(code string) {
		outcome := s.HandleScan(ctx, code)
		if s.onOutcome != nil {
			s.onOutcome(outcome)
		}
	}, opts...)

	decoder.Arm()
	defer decoder.Disarm()
	s.logger.Info("scan session started", zap.String("mode", string(s.Mode())), zap.Duration("timeout", decoder.Timeout()))

	for {
		key, err := source.ReadKey(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}

		switch key.Name {
		case secondary.KeyEscape, secondary.KeyInterrupt:
			s.logger.Info("scan session ended by operator")
			return nil
		case "":
			decoder.PressRune(key.Rune)
		default:
			decoder.Press(key.Name)
		}
	}
}

// HandleScan routes one decoded code according to the current mode.
func (s *ScanSession) HandleScan(ctx context.Context, code string) ScanOutcome {
	var outcome ScanOutcome
	if p := s.takePending(); p != nil && (code == p.code || isAnswer(code, "y", "yes")) {
		outcome = s.commit(ctx, p.mode, p.code, p.kind)
	} else if p != nil && isAnswer(code, "n", "no") {
		outcome = ScanOutcome{Code: p.code, Mode: p.mode, Kind: p.kind, Cancelled: true}
		s.logger.Info("scan cancelled by operator", zap.String("mode", string(p.mode)), zap.String("code", p.code))
	} else {
		outcome = s.resolve(ctx, s.Mode(), code)
	}

	if outcome.Err != nil {
		s.logger.Warn("scan refused", zap.String("mode", string(outcome.Mode)), zap.String("code", code), zap.Error(outcome.Err))
	}
	return outcome
}

// resolve looks code up without changing anything, committing right away
// only when it continues an existing shipment or billing.
func (s *ScanSession) resolve(ctx context.Context, mode ScanMode, code string) ScanOutcome {
	outcome := ScanOutcome{Code: code, Mode: mode}

	switch mode {
	case ScanModeShipment:
		resolution, err := s.shipments.ResolveShipment(ctx, code)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Kind = resolution.Kind
		outcome.Shipment = resolution.Shipment
		if resolution.Kind == primary.ResolutionNew {
			s.hold(&outcome)
			return outcome
		}

	case ScanModeBilling:
		current, err := s.shipments.CurrentShipment(ctx)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		resolution, err := s.billings.ResolveBilling(ctx, current.ID, code)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Kind = resolution.Kind
		outcome.Shipment = current
		outcome.Billing = resolution
		if resolution.Kind != primary.ResolutionContinue {
			s.hold(&outcome)
			return outcome
		}

	case ScanModeItem:
		outcome.Item, outcome.Err = s.items.ScanItem(ctx, code)
		return outcome
	}

	return s.commit(ctx, mode, code, outcome.Kind)
}

// commit applies a shipment or billing resolution and advances the mode.
func (s *ScanSession) commit(ctx context.Context, mode ScanMode, code, kind string) ScanOutcome {
	outcome := ScanOutcome{Code: code, Mode: mode, Kind: kind}

	switch mode {
	case ScanModeShipment:
		outcome.Shipment, outcome.Err = s.shipments.ConfirmShipment(ctx, primary.ConfirmShipmentRequest{Code: code})
		if outcome.Err == nil {
			s.setMode(ScanModeBilling)
		}

	case ScanModeBilling:
		current, err := s.shipments.CurrentShipment(ctx)
		if err != nil {
			outcome.Err = err
			break
		}
		outcome.Shipment = current
		outcome.Billing, outcome.Err = s.billings.ConfirmBilling(ctx, current.ID, code)
		if outcome.Err == nil {
			outcome.Kind = outcome.Billing.Kind
			s.setMode(ScanModeItem)
		}
	}
	return outcome
}

// hold records outcome as awaiting confirmation.
func (s *ScanSession) hold(outcome *ScanOutcome) {
	outcome.Pending = true
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &pendingScan{mode: outcome.Mode, code: outcome.Code, kind: outcome.Kind}
}

// takePending returns and clears the pending resolution, if any.
func (s *ScanSession) takePending() *pendingScan {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pending
	s.pending = nil
	return p
}

func isAnswer(code string, answers ...string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, a := range answers {
		if code == a {
			return true
		}
	}
	return false
}

// startPruner schedules the audit retention job for the session's lifetime.
func (s *ScanSession) startPruner(ctx context.Context) (*cron.Cron, error) {
	if s.audit == nil || s.cfg.AuditRetentionDays <= 0 || s.cfg.AuditPruneSchedule == "" {
		return nil, nil
	}

	c := cron.New()
	days := s.cfg.AuditRetentionDays
	_, err := c.AddFunc(s.cfg.AuditPruneSchedule, func() {
		if _, err := s.audit.PruneLogs(ctx, days); err != nil {
			s.logger.Warn("scheduled audit prune failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid audit prune schedule %q: %w", s.cfg.AuditPruneSchedule, err)
	}
	c.Start()
	return c, nil
}
