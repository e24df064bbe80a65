// Package order holds the business rules of restaurant orders.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/restaurantchain/order-backend/internal/domain"
	"github.com/restaurantchain/order-backend/internal/events"
	"github.com/restaurantchain/order-backend/internal/repository"
)

const (
	msgCreateWithID       = "Para crear un pedido el número ha de ser null"
	msgUpdateWithoutID    = "No se puede actualizar un pedido con número null"
	msgUpdateMissing      = "El pedido con número %d no existe. No se puede actualizar"
	msgInvalidID          = "El número de pedido %d no es válido"
	msgUnknownStatus      = "Estado de pedido desconocido: %s"
	msgInvalidReference   = "El pedido hace referencia a un camarero, cliente, establecimiento o producto que no existe"
	msgTransitionNotFound = "No existe el pedido %d"
)

// Repository is the order store the service works against
type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (int64, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, order *domain.Order) error
	MutateOrder(ctx context.Context, id int64, fn func(*domain.Order) error) (*domain.Order, error)
}

// Publisher receives the events of successful writes
type Publisher interface {
	Publish(ctx context.Context, event events.OrderEvent) error
}

// Recorder counts domain activity
type Recorder interface {
	OrderCreated()
	OrderTransitioned(to domain.Status)
}

// Option configures optional collaborators of the Service
type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// Service implements order creation, edition and lifecycle transitions
type Service struct {
	repo      Repository
	logger    *slog.Logger
	publisher Publisher
	recorder  Recorder
	tracer    trace.Tracer
}

// NewService creates a Service. Without options events are dropped, nothing is counted
// and spans are not recorded.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		logger:    logger,
		publisher: discardPublisher{},
		recorder:  discardRecorder{},
		tracer:    noop.NewTracerProvider().Tracer(""),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create stores a new order and returns the id issued for it.
// The order must not carry an id.
func (s *Service) Create(ctx context.Context, order *domain.Order) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "order.Create")
	defer span.End()

	if order.ID != nil {
		return 0, &InvalidArgumentError{Message: msgCreateWithID}
	}
	if !order.Status.Valid() {
		return 0, &InvalidArgumentError{Message: fmt.Sprintf(msgUnknownStatus, order.Status)}
	}

	id, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return 0, &InvalidArgumentError{Message: msgInvalidReference}
		}
		return 0, spanError(span, fmt.Errorf("create order: %w", err))
	}

	span.SetAttributes(attribute.Int64("order.id", id))
	s.recorder.OrderCreated()
	s.publish(ctx, events.NewOrderEvent(events.TypeOrderCreated, id, order.Status.Normalize()))

	return id, nil
}

// Read returns the order with the given id. found is false when there is none.
func (s *Service) Read(ctx context.Context, id int64) (*domain.Order, bool, error) {
	ctx, span := s.tracer.Start(ctx, "order.Read", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, spanError(span, fmt.Errorf("read order %d: %w", id, err))
	}

	return order, true, nil
}

// GetAll returns every stored order in ascending id order
func (s *Service) GetAll(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.GetAll")
	defer span.End()

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("list orders: %w", err))
	}

	return orders, nil
}

// Update replaces the stored order identified by order.ID, lines included.
func (s *Service) Update(ctx context.Context, order *domain.Order) error {
	ctx, span := s.tracer.Start(ctx, "order.Update")
	defer span.End()

	if order.ID == nil {
		return &InvalidArgumentError{Message: msgUpdateWithoutID}
	}
	id := *order.ID
	span.SetAttributes(attribute.Int64("order.id", id))

	if !order.Status.Valid() {
		return &InvalidArgumentError{Message: fmt.Sprintf(msgUnknownStatus, order.Status)}
	}

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return s.writeError(span, id, err)
	}

	return nil
}

// Patch applies the set fields of patch to the stored order
func (s *Service) Patch(ctx context.Context, id int64, patch domain.Patch) error {
	ctx, span := s.tracer.Start(ctx, "order.Patch", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if id <= 0 {
		return &InvalidArgumentError{Message: fmt.Sprintf(msgInvalidID, id)}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return &InvalidArgumentError{Message: fmt.Sprintf(msgUnknownStatus, *patch.Status)}
	}
	if patch.IsEmpty() {
		// nothing to write, but the order must still exist
		if _, err := s.repo.GetOrderByID(ctx, id); err != nil {
			return s.writeError(span, id, err)
		}
		return nil
	}

	_, err := s.repo.MutateOrder(ctx, id, func(o *domain.Order) error {
		patch.Apply(o)
		return nil
	})
	if err != nil {
		return s.writeError(span, id, err)
	}

	return nil
}

// Process moves a created order into preparation
func (s *Service) Process(ctx context.Context, id int64) error {
	return s.Transition(ctx, id, domain.TransitionProcess)
}

// Serve marks an order in preparation as served
func (s *Service) Serve(ctx context.Context, id int64) error {
	return s.Transition(ctx, id, domain.TransitionServe)
}

// Deliver marks a served order as delivered
func (s *Service) Deliver(ctx context.Context, id int64) error {
	return s.Transition(ctx, id, domain.TransitionDeliver)
}

// Cancel cancels an order that has not been delivered
func (s *Service) Cancel(ctx context.Context, id int64) error {
	return s.Transition(ctx, id, domain.TransitionCancel)
}

// Transition applies t to the stored order inside a single transaction
func (s *Service) Transition(ctx context.Context, id int64, t domain.Transition) error {
	ctx, span := s.tracer.Start(ctx, "order.Transition", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.transition", string(t)),
	))
	defer span.End()

	order, err := s.repo.MutateOrder(ctx, id, func(o *domain.Order) error {
		next, err := o.Status.Next(t)
		if err != nil {
			return err
		}
		o.Status = next
		return nil
	})
	if err != nil {
		var transitionErr *domain.TransitionError
		switch {
		case errors.As(err, &transitionErr):
			return &InvalidStateError{Message: transitionErr.Error(), Err: err}
		case repository.IsNotFound(err):
			return &InvalidStateError{Message: fmt.Sprintf(msgTransitionNotFound, id), Err: err}
		}
		return spanError(span, fmt.Errorf("%s order %d: %w", t, id, err))
	}

	span.SetAttributes(attribute.String("order.status", string(order.Status)))
	s.recorder.OrderTransitioned(order.Status)
	s.publish(ctx, events.NewOrderEvent(events.StatusEventType(order.Status), id, order.Status))

	return nil
}

func (s *Service) writeError(span trace.Span, id int64, err error) error {
	switch {
	case repository.IsNotFound(err):
		return &InvalidStateError{Message: fmt.Sprintf(msgUpdateMissing, id), Err: err}
	case errors.Is(err, repository.ErrInvalidReference):
		return &InvalidArgumentError{Message: msgInvalidReference}
	}
	return spanError(span, fmt.Errorf("update order %d: %w", id, err))
}

func (s *Service) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish order event",
			"type", event.Type,
			"order_id", event.OrderID,
			"error", err,
		)
	}
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, events.OrderEvent) error { return nil }

type discardRecorder struct{}

func (discardRecorder) OrderCreated() {}
func (discardRecorder) OrderTransitioned(domain.Status) {}
