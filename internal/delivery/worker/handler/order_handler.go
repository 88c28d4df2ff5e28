// Package handler contains the push handlers for the worker delivery.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"sabor/config"
	deliverycontext "sabor/internal/delivery/context"
	"sabor/internal/domain/constants"
	"sabor/internal/domain/entity"
	"sabor/internal/domain/repository"
	"sabor/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// OrderHandler handles Pub/Sub push messages carrying placed-order events.
// It advances each order from placed to confirmed.
type OrderHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	orderRepo      repository.OrderRepository
}

// OrderHandlerParams holds dependencies for the OrderHandler
type OrderHandlerParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	OrderRepo repository.OrderRepository
}

// NewOrderHandler creates a new Pub/Sub push handler for order events
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	// Push auth only applies to the Google provider outside development
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &OrderHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		orderRepo:      params.OrderRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *OrderHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse order event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Extract request_id for distributed tracing
	// Priority: message attributes > event field > existing context
	requestID := h.extractRequestID(ctx, &pushMsg, &event)

	reqLogger := h.logger.With(slog.String("request_id", requestID))

	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing order event",
		slog.String("order_id", event.OrderID),
		slog.String("store_slug", event.StoreSlug),
		slog.String("grand_total", event.GrandTotal),
	)

	if err := h.processOrder(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process order event",
			slog.String("order_id", event.OrderID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Order event processed successfully",
		slog.String("order_id", event.OrderID),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *OrderHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.OrderEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processOrder confirms the placed order referenced by the event. Processing
// an already confirmed order is a no-op so redeliveries stay harmless.
func (h *OrderHandler) processOrder(ctx context.Context, event *service.OrderEvent) error {
	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		return errors.WithStack(err)
	}

	order, err := h.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			// The event outran the committed order, let Pub/Sub retry.
			return newRetryableError(errors.WithStack(err))
		}

		return newRetryableError(errors.WithStack(err))
	}

	if order.Status == entity.OrderStatusConfirmed {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("[Worker] Order already confirmed, skipping",
			slog.String("order_id", event.OrderID),
		)

		return nil
	}

	if err := h.orderRepo.UpdateOrderStatus(ctx, orderID, entity.OrderStatusConfirmed); err != nil {
		return newRetryableError(errors.WithStack(err))
	}

	return nil
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience should be the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	// The issuer should be accounts.google.com
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
