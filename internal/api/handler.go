package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eugenenazirov/warehouse-allocator/internal/report"
	"github.com/eugenenazirov/warehouse-allocator/internal/storage"
	"github.com/eugenenazirov/warehouse-allocator/internal/warehouse"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxBatchSize = 10_000
	defaultMaxRooms     = 1_000
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler wires the allocator and layout storage into HTTP handlers.
type Handler struct {
	allocator *warehouse.Allocator
	storage   storage.Storage
	logger    *zap.Logger

	clock        func() time.Time
	maxBatchSize int
	maxRooms     int

	mu             sync.RWMutex
	roomsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxBatchSize caps the number of boxes accepted per request. Zero or
// negative values keep the default.
func WithMaxBatchSize(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.maxBatchSize = limit
		}
	}
}

// WithMaxRooms caps the number of rooms in a stored layout or an inline
// allocation request. Zero or negative values keep the default.
func WithMaxRooms(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.maxRooms = limit
		}
	}
}

// WithHandlerLogger attaches a logger used for allocation summaries.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(alloc *warehouse.Allocator, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		allocator:    alloc,
		storage:      store,
		logger:       zap.NewNop(),
		maxBatchSize: defaultMaxBatchSize,
		maxRooms:     defaultMaxRooms,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.roomsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetRooms(w http.ResponseWriter, r *http.Request) {
	_ = r
	rooms, err := h.storage.GetRooms()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := roomsResponse{
		Rooms:     rooms,
		UpdatedAt: h.currentRoomsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutRooms(w http.ResponseWriter, r *http.Request) {
	var req roomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if len(req.Rooms) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid rooms", "rooms must contain at least one room")
		return
	}

	if !h.checkRoomLimit(w, len(req.Rooms)) {
		return
	}

	if err := h.storage.SetRooms(req.Rooms); err != nil {
		if isValidationError(err) {
			writeValidationError(w, "Invalid rooms", err)
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markRoomsUpdated()

	rooms, err := h.storage.GetRooms()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := roomsResponse{
		Rooms:     rooms,
		UpdatedAt: h.currentRoomsUpdatedAt(),
		Message:   "Rooms updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAllocate(w http.ResponseWriter, r *http.Request) {
	rep, elapsed, ok := h.allocate(w, r)
	if !ok {
		return
	}

	resp := allocateResponse{
		Report:            rep,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAllocateExport(w http.ResponseWriter, r *http.Request) {
	rep, _, ok := h.allocate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, rep, report.FormatXLSX); err != nil {
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "allocation-"+rep.BatchID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// allocate decodes and validates an allocation request, runs it against fresh
// rooms and writes an error response itself when it returns false.
func (h *Handler) allocate(w http.ResponseWriter, r *http.Request) (report.Report, time.Duration, bool) {
	var req allocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return report.Report{}, 0, false
	}

	if len(req.Boxes) > h.maxBatchSize {
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("batch contains %d boxes, the limit is %d", len(req.Boxes), h.maxBatchSize),
			"Split the batch into smaller requests")
		return report.Report{}, 0, false
	}

	if err := warehouse.ValidateBoxSpecs(req.Boxes); err != nil {
		writeValidationError(w, "Invalid boxes", err)
		return report.Report{}, 0, false
	}

	roomSpecs := req.Rooms
	if len(roomSpecs) > 0 {
		if !h.checkRoomLimit(w, len(roomSpecs)) {
			return report.Report{}, 0, false
		}
		if err := warehouse.ValidateRoomSpecs(roomSpecs); err != nil {
			writeValidationError(w, "Invalid rooms", err)
			return report.Report{}, 0, false
		}
	} else {
		stored, err := h.storage.GetRooms()
		if err != nil {
			writeInternalError(w, err)
			return report.Report{}, 0, false
		}
		roomSpecs = stored
	}

	batchID := uuid.NewString()
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("allocation.batch_id", batchID),
		attribute.Int("allocation.rooms", len(roomSpecs)),
		attribute.Int("allocation.boxes", len(req.Boxes)),
	)

	rooms := warehouse.BuildRooms(roomSpecs)
	boxes := warehouse.BuildBoxes(req.Boxes)

	start := time.Now()
	result := h.allocator.Run(rooms, boxes)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Int("allocation.accepted", len(result.Placements)),
		attribute.Int("allocation.rejected", len(result.Rejections)),
	)
	h.logger.Info("batch allocated",
		zap.String("batch_id", batchID),
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.Int("boxes", len(boxes)),
		zap.Int("accepted", len(result.Placements)),
		zap.Int("rejected", len(result.Rejections)),
		zap.Duration("duration", elapsed),
	)

	return report.New(batchID, rooms, result), elapsed, true
}

// checkRoomLimit writes a 400 and returns false when count exceeds the room cap.
func (h *Handler) checkRoomLimit(w http.ResponseWriter, count int) bool {
	if count <= h.maxRooms {
		return true
	}
	writeError(w, http.StatusBadRequest, "Invalid rooms",
		fmt.Sprintf("layout contains %d rooms, the limit is %d", count, h.maxRooms),
		"Merge rooms or raise the configured room limit")
	return false
}

func (h *Handler) currentRoomsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.roomsUpdatedAt
}

func (h *Handler) markRoomsUpdated() {
	h.mu.Lock()
	h.roomsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

var validationErrors = []error{
	warehouse.ErrNoRooms,
	warehouse.ErrEmptyName,
	warehouse.ErrDuplicateName,
	warehouse.ErrNegativeCapacity,
	warehouse.ErrNegativeVolume,
	warehouse.ErrUnknownHazard,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type roomsRequest struct {
	Rooms []warehouse.RoomSpec `json:"rooms"`
}

type allocateRequest struct {
	Boxes []warehouse.BoxSpec  `json:"boxes"`
	Rooms []warehouse.RoomSpec `json:"rooms,omitempty"`
}

type allocateResponse struct {
	report.Report
	CalculationTimeMs int64 `json:"calculationTimeMs"`
}

type roomsResponse struct {
	Rooms     []warehouse.RoomSpec `json:"rooms"`
	UpdatedAt time.Time            `json:"updatedAt"`
	Message   string               `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Details    string   `json:"details,omitempty"`
	Problems   []string `json:"problems,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

// writeValidationError lists every aggregated validation failure separately.
func writeValidationError(w http.ResponseWriter, message string, err error) {
	errs := multierr.Errors(err)
	problems := make([]string, len(errs))
	for i, e := range errs {
		problems[i] = e.Error()
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:    message,
		Details:  err.Error(),
		Problems: problems,
	})
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, warehouse.ErrUnknownHazard) {
		writeError(w, http.StatusBadRequest, "Invalid hazards", err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
