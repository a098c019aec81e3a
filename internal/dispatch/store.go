// server/internal/dispatch/store.go
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"garment-dispatch-api-server/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// How long an issued cancel token stays confirmable.
const cancelTokenTTL = 5 * time.Minute

// Store owns persistence and status transitions of submitted dispatch
// orders. Every mutation runs inside one Mongo transaction, so a
// failed operation never leaves a partial write and concurrent
// submits against the same stock serialize: the commit-time
// availability check inside Create is the authoritative one, the
// draft-time check is only optimistic.
type Store struct {
	DB *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{DB: db}
}

// Receipt is one reported line of the receiving-side workflow.
type Receipt struct {
	LineID      string `json:"lineID" binding:"required"`
	QtyReceived int    `json:"qtyReceived"`
}

// CancelRequest is the first half of the two-phase cancel: a token
// the client must echo back, plus a human-readable description of
// what confirming it would do.
type CancelRequest struct {
	Token       string    `json:"token"`
	Description string    `json:"description"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (s *Store) orders() *mongo.Collection {
	return s.DB.Collection("dispatch_orders")
}

func (s *Store) stockLevels() *mongo.Collection {
	return s.DB.Collection("stock_levels")
}

// withTransaction runs fn inside a session transaction. Transient
// transaction errors (write conflicts between concurrent submits) are
// retried by the driver; domain errors abort and propagate.
func (s *Store) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	session, err := s.DB.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)
	return session.WithTransaction(ctx, fn)
}

// nextCode draws the next monotonic order code from the counters
// collection, e.g., "DO-000042".
func (s *Store) nextCode(ctx context.Context) (string, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.DB.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": "dispatch_orders"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("next order code: %w", err)
	}
	return fmt.Sprintf("DO-%06d", counter.Seq), nil
}

// reserve atomically claims qty units of a product at a warehouse.
// The filter only matches while available - reserved still covers the
// claim, so the reservation can never over-commit stock; a miss means
// the draft's snapshot went stale.
func (s *Store) reserve(ctx context.Context, warehouseID, productID string, qty int) error {
	result, err := s.stockLevels().UpdateOne(ctx,
		bson.M{
			"warehouseID": warehouseID,
			"productID":   productID,
			"$expr": bson.M{"$gte": bson.A{
				bson.M{"$subtract": bson.A{"$available", "$reserved"}},
				qty,
			}},
		},
		bson.M{
			"$inc": bson.M{"reserved": qty},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("reserve stock for product %q: %w", productID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: product %q at warehouse %q", ErrConcurrentModification, productID, warehouseID)
	}
	return nil
}

// release gives reserved units back, on cancel and on terminal
// reconciliation (after which the fulfillment side owns the physical
// stock decrement).
func (s *Store) release(ctx context.Context, order *models.DispatchOrder) error {
	totals := map[string]int{}
	for _, line := range order.Lines {
		totals[line.ProductID] += line.QtySent
	}
	for productID, qty := range totals {
		_, err := s.stockLevels().UpdateOne(ctx,
			bson.M{"warehouseID": order.FromWarehouseID, "productID": productID},
			bson.M{
				"$inc": bson.M{"reserved": -qty},
				"$set": bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			return fmt.Errorf("release stock for product %q: %w", productID, err)
		}
	}
	return nil
}

// Create persists a draft as a new PENDING order. Inside one
// transaction it re-validates availability by reserving each
// product's total; if any product no longer covers its total, the
// whole submission is rejected with ErrConcurrentModification and
// nothing is written.
func (s *Store) Create(ctx context.Context, draft *Draft, createdBy string) (*models.DispatchOrder, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	totals := draft.productTotals()
	productIDs := make([]string, 0, len(totals))
	for productID := range totals {
		productIDs = append(productIDs, productID)
	}
	sort.Strings(productIDs) // deterministic reservation order across concurrent submits

	result, err := s.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, productID := range productIDs {
			if err := s.reserve(sc, draft.FromWarehouseID, productID, totals[productID]); err != nil {
				return nil, err
			}
		}

		code, err := s.nextCode(sc)
		if err != nil {
			return nil, err
		}

		lines := make([]models.OrderLine, 0, len(draft.lines))
		for _, line := range draft.lines {
			lines = append(lines, models.OrderLine{
				LineID:      uuid.New().String(),
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				SizeID:      line.SizeID,
				Color:       line.Color,
				ColorKey:    line.ColorKey,
				QtySent:     line.QtySent,
			})
		}

		order := &models.DispatchOrder{
			OrderID:         uuid.New().String(),
			Code:            code,
			FromWarehouseID: draft.FromWarehouseID,
			ToWarehouseID:   draft.ToWarehouseID,
			Status:          models.OrderStatusPending,
			Notes:           draft.Notes,
			Lines:           lines,
			CreatedBy:       createdBy,
			CreatedAt:       time.Now(),
		}

		insertResult, err := s.orders().InsertOne(sc, order)
		if err != nil {
			return nil, fmt.Errorf("insert dispatch order: %w", err)
		}
		if oid, ok := insertResult.InsertedID.(primitive.ObjectID); ok {
			order.ID = oid
		}
		return order, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.DispatchOrder), nil
}

// List returns summaries of all orders, newest first.
func (s *Store) List(ctx context.Context) ([]models.OrderSummary, error) {
	cursor, err := s.orders().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("query dispatch orders: %w", err)
	}
	var orders []models.DispatchOrder
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode dispatch orders: %w", err)
	}

	summaries := []models.OrderSummary{}
	for _, order := range orders {
		summary := models.OrderSummary{
			OrderID:         order.OrderID,
			Code:            order.Code,
			FromWarehouseID: order.FromWarehouseID,
			ToWarehouseID:   order.ToWarehouseID,
			Status:          order.Status,
			LineCount:       len(order.Lines),
			FullyReported:   true,
			CreatedBy:       order.CreatedBy,
			CreatedAt:       order.CreatedAt,
		}
		for _, line := range order.Lines {
			summary.TotalQtySent += line.QtySent
			if line.QtyReceived != nil {
				summary.TotalQtyReceived += *line.QtyReceived
			} else {
				summary.FullyReported = false
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Get returns one order with full line detail.
func (s *Store) Get(ctx context.Context, orderID string) (*models.DispatchOrder, error) {
	var order models.DispatchOrder
	err := s.orders().FindOne(ctx, bson.M{"orderID": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: dispatch order %q", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("retrieve dispatch order: %w", err)
	}
	return &order, nil
}

// RequestCancel is phase one of cancelling: it stamps a short-lived
// token onto a PENDING order and describes what confirming would do.
// No state changes beyond the token itself.
func (s *Store) RequestCancel(ctx context.Context, orderID string) (*CancelRequest, error) {
	token := uuid.New().String()
	expiresAt := time.Now().Add(cancelTokenTTL)

	var order models.DispatchOrder
	err := s.orders().FindOneAndUpdate(ctx,
		bson.M{"orderID": orderID, "status": models.OrderStatusPending},
		bson.M{"$set": bson.M{"cancelToken": token, "cancelTokenExpiresAt": expiresAt}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.transitionError(ctx, orderID, "cancel")
		}
		return nil, fmt.Errorf("request cancel: %w", err)
	}

	return &CancelRequest{
		Token: token,
		Description: fmt.Sprintf("Cancel dispatch order %s (%s -> %s, %d line items). This cannot be undone.",
			order.Code, order.FromWarehouseID, order.ToWarehouseID, len(order.Lines)),
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmCancel is phase two: it consumes an unexpired token and
// moves the order to CANCELLED, releasing its reservation. The guard
// and the transition happen in a single update, so a receipt report
// racing the cancel can never leave the order half-transitioned.
func (s *Store) ConfirmCancel(ctx context.Context, token string) (*models.DispatchOrder, error) {
	result, err := s.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var order models.DispatchOrder
		err := s.orders().FindOneAndUpdate(sc,
			bson.M{
				"cancelToken":          token,
				"status":               models.OrderStatusPending,
				"cancelTokenExpiresAt": bson.M{"$gt": time.Now()},
			},
			bson.M{
				"$set":   bson.M{"status": models.OrderStatusCancelled},
				"$unset": bson.M{"cancelToken": "", "cancelTokenExpiresAt": ""},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&order)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("%w: cancel token is unknown, expired, or the order already left PENDING", ErrInvalidTransition)
			}
			return nil, fmt.Errorf("confirm cancel: %w", err)
		}
		if err := s.release(sc, &order); err != nil {
			return nil, err
		}
		return &order, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.DispatchOrder), nil
}

// guardPending rejects a status transition on an order that already
// left PENDING.
func guardPending(order *models.DispatchOrder, action string) error {
	if order.Status != models.OrderStatusPending {
		return fmt.Errorf("%w: cannot %s order %s in status %s", ErrInvalidTransition, action, order.Code, order.Status)
	}
	return nil
}

// applyReceipts writes reported quantities onto a copy of the order's
// lines. A report for a line that was reported before overwrites the
// earlier value; final zero-fills every line that no report ever
// covered. The input slice is never mutated, so a validation failure
// leaves the order exactly as it was.
func applyReceipts(lines []models.OrderLine, receipts []Receipt, final bool, orderCode string) ([]models.OrderLine, error) {
	updated := make([]models.OrderLine, len(lines))
	copy(updated, lines)

	lineIndex := map[string]int{}
	for i, line := range updated {
		lineIndex[line.LineID] = i
	}
	for _, receipt := range receipts {
		i, ok := lineIndex[receipt.LineID]
		if !ok {
			return nil, fmt.Errorf("%w: line %q does not belong to order %s", ErrInvalidInput, receipt.LineID, orderCode)
		}
		if receipt.QtyReceived < 0 {
			return nil, fmt.Errorf("%w: received quantity must not be negative", ErrInvalidInput)
		}
		qty := receipt.QtyReceived
		updated[i].QtyReceived = &qty
	}
	if final {
		for i := range updated {
			if updated[i].QtyReceived == nil {
				zero := 0
				updated[i].QtyReceived = &zero
			}
		}
	}
	return updated, nil
}

// RecordReceipt stores the receiving side's reported quantities.
// Reported lines overwrite earlier reports; lines never reported keep
// a nil QtyReceived and block reconciliation. Setting final zero-fills
// the unreported lines (the explicit "close receiving" action). Once
// every line has a value the reconciler fixes the terminal status and
// the reservation is released.
func (s *Store) RecordReceipt(ctx context.Context, orderID string, receipts []Receipt, final bool, reportedBy string) (*models.DispatchOrder, error) {
	result, err := s.withTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var order models.DispatchOrder
		err := s.orders().FindOne(sc, bson.M{"orderID": orderID}).Decode(&order)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("%w: dispatch order %q", ErrNotFound, orderID)
			}
			return nil, fmt.Errorf("retrieve dispatch order: %w", err)
		}
		if err := guardPending(&order, "record receipts for"); err != nil {
			return nil, err
		}

		lines, err := applyReceipts(order.Lines, receipts, final, order.Code)
		if err != nil {
			return nil, err
		}
		order.Lines = lines

		update := bson.M{"lines": order.Lines}
		status, fullyReported := Reconcile(order.Lines)
		if fullyReported {
			now := time.Now()
			order.Status = status
			order.ConfirmedBy = reportedBy
			order.ConfirmedAt = &now
			update["status"] = status
			update["confirmedBy"] = reportedBy
			update["confirmedAt"] = now
		}

		// Guard on PENDING again so a cancel that slipped in between
		// cannot be overwritten.
		updateResult, err := s.orders().UpdateOne(sc,
			bson.M{"orderID": orderID, "status": models.OrderStatusPending},
			bson.M{"$set": update},
		)
		if err != nil {
			return nil, fmt.Errorf("record receipt: %w", err)
		}
		if updateResult.MatchedCount == 0 {
			return nil, fmt.Errorf("%w: order %s left PENDING concurrently", ErrInvalidTransition, order.Code)
		}

		if fullyReported {
			if err := s.release(sc, &order); err != nil {
				return nil, err
			}
		}
		return &order, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.DispatchOrder), nil
}

// AttachReceiptPhoto stores a proof-photo pointer on a PENDING order.
func (s *Store) AttachReceiptPhoto(ctx context.Context, orderID string, photo models.MediaPointer) error {
	result, err := s.orders().UpdateOne(ctx,
		bson.M{"orderID": orderID, "status": models.OrderStatusPending},
		bson.M{"$push": bson.M{"receiptPhotos": photo}},
	)
	if err != nil {
		return fmt.Errorf("attach receipt photo: %w", err)
	}
	if result.MatchedCount == 0 {
		return s.transitionError(ctx, orderID, "attach a photo to")
	}
	return nil
}

// transitionError distinguishes "order does not exist" from "order is
// no longer PENDING" for a nicer error.
func (s *Store) transitionError(ctx context.Context, orderID, action string) error {
	var order models.DispatchOrder
	err := s.orders().FindOne(ctx, bson.M{"orderID": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: dispatch order %q", ErrNotFound, orderID)
	}
	if err != nil {
		return fmt.Errorf("retrieve dispatch order: %w", err)
	}
	if err := guardPending(&order, action); err != nil {
		return err
	}
	// The order is PENDING again; the guarded update lost a race.
	return fmt.Errorf("%w: order %s changed concurrently", ErrInvalidTransition, order.Code)
}
