package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	coreerrors "github.com/example/shiptrack/internal/core/errors"
	"github.com/example/shiptrack/internal/core/tracking"
	"github.com/example/shiptrack/internal/ctxutil"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/ports/secondary"
)

// ExportServiceImpl implements the ExportService interface. Exports read
// the current snapshot and never change state.
type ExportServiceImpl struct {
	store   *TrackingStore
	logRepo secondary.AuditLogRepository
	excel   secondary.ReportWriter
	pdf     secondary.ReportWriter
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService creates a new ExportService with injected dependencies.
func NewExportService(
	store *TrackingStore,
	logRepo secondary.AuditLogRepository,
	excel secondary.ReportWriter,
	pdf secondary.ReportWriter,
	logger *zap.Logger,
) *ExportServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportServiceImpl{
		store:   store,
		logRepo: logRepo,
		excel:   excel,
		pdf:     pdf,
		logger:  logger,
		now:     time.Now,
	}
}

// ExportExcel writes an .xlsx workbook to w.
func (s *ExportServiceImpl) ExportExcel(ctx context.Context, w io.Writer, req primary.ExportRequest) error {
	return s.export(ctx, w, req, s.excel)
}

// ExportPDF writes a PDF report to w.
func (s *ExportServiceImpl) ExportPDF(ctx context.Context, w io.Writer, req primary.ExportRequest) error {
	return s.export(ctx, w, req, s.pdf)
}

func (s *ExportServiceImpl) export(ctx context.Context, w io.Writer, req primary.ExportRequest, writer secondary.ReportWriter) error {
	report, err := s.buildReport(ctx, req)
	if err != nil {
		return err
	}
	if err := writer.Write(w, report); err != nil {
		s.logger.Error("export failed", zap.String("format", writer.Format()), zap.Error(err))
		return fmt.Errorf("failed to write %s report: %w", writer.Format(), err)
	}
	s.logger.Info("report exported",
		zap.String("format", writer.Format()),
		zap.Int("shipments", len(report.Shipments)),
		zap.Int("items", len(report.Items)))
	return nil
}

func (s *ExportServiceImpl) buildReport(ctx context.Context, req primary.ExportRequest) (*secondary.Report, error) {
	state := s.store.Snapshot()

	var shipments []tracking.Shipment
	if req.ShipmentID != "" {
		sh, ok := state.Shipment(req.ShipmentID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", coreerrors.ErrShipmentNotFound, req.ShipmentID)
		}
		shipments = []tracking.Shipment{sh}
	} else {
		shipments = state.Shipments
	}

	report := &secondary.Report{
		Title:       "Shipment report",
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		GeneratedBy: ctxutil.ActorFromContext(ctx),
	}
	if req.ShipmentID != "" {
		report.Title = "Shipment " + req.ShipmentID
	}

	for _, sh := range shipments {
		report.Shipments = append(report.Shipments, secondary.ReportShipment{
			ID:             sh.ID,
			Name:           sh.Name,
			TrackingNumber: sh.TrackingNumber,
			Origin:         sh.Origin,
			Destination:    sh.Destination,
			Status:         string(sh.Status),
			Creator:        sh.Creator,
			CreatedAt:      sh.CreatedAt,
			BillingCount:   len(sh.Billings),
			ItemCount:      sh.ItemCount(),
		})
		for _, b := range sh.Billings {
			for _, it := range b.Items {
				report.Items = append(report.Items, secondary.ReportItemRow{
					ShipmentID:    sh.ID,
					BillingID:     b.ID,
					BillingStatus: string(b.Status),
					ItemID:        it.ID,
					Creator:       it.Creator,
					CreatedAt:     it.CreatedAt,
				})
			}
		}
	}

	if req.IncludeAudit {
		records, err := s.logRepo.List(ctx, secondary.AuditLogFilters{
			ShipmentID: req.ShipmentID,
			Limit:      req.AuditLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load audit logs: %w", err)
		}
		for _, r := range records {
			report.Audit = append(report.Audit, secondary.ReportAuditRow{
				Timestamp:  r.Timestamp,
				ActorID:    r.ActorID,
				Action:     r.Action,
				EntityType: r.EntityType,
				EntityID:   r.EntityID,
				ShipmentID: r.ShipmentID,
				Change:     describeChange(r),
			})
		}
	}

	return report, nil
}

func describeChange(r *secondary.AuditLogRecord) string {
	if r.FieldName == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s -> %s", r.FieldName, orDash(r.OldValue), orDash(r.NewValue))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Ensure ExportServiceImpl implements the interface
var _ primary.ExportService = (*ExportServiceImpl)(nil)
