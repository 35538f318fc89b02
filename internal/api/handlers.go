package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"sales-batch-service/internal/transaction"
	"sales-batch-service/telemetry"
)

type Handlers struct {
	Log    *zap.Logger
	Svc    *transaction.Service
	DBPing func(ctx context.Context) error

	// Kafka config for the events poll endpoint; empty disables it.
	KafkaBrokers []string
	KafkaTopic   string
}

// health handler
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	db := "ok"
	if h.DBPing != nil {
		if err := h.DBPing(ctx); err != nil {
			db = "down"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"db":            db,
		"kafka_enabled": len(h.KafkaBrokers) > 0,
	})
}

// BatchCreateTransactions handles POST /transactions/batch: validates the
// whole batch, persists it atomically and returns the created records.
func (h *Handlers) BatchCreateTransactions(c *gin.Context) {
	var req transaction.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.IncBatchRejected("malformed")
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"detail": "invalid JSON payload"}})
		return
	}

	res, err := h.Svc.IngestBatch(c.Request.Context(), req)
	if err != nil {
		var berr *transaction.BatchError
		if errors.As(err, &berr) {
			telemetry.IncBatchRejected("validation")
			c.JSON(http.StatusBadRequest, gin.H{"errors": berr})
			return
		}
		telemetry.IncBatchRejected("db")
		h.Log.Error("batch persist failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "failed to persist transactions",
			"detail": err.Error(),
		})
		return
	}

	highRisk := 0
	for _, t := range res.Transactions {
		if t.HighRisk {
			highRisk++
		}
	}
	telemetry.IncBatchIngested(res.Created, highRisk)

	c.JSON(http.StatusCreated, toBatchResponse(res))
}

// EventView is the JSON shape of one polled Kafka event.
type EventView struct {
	Offset    int64           `json:"offset"`
	Partition int             `json:"partition"`
	Time      time.Time       `json:"time"`
	Key       string          `json:"key,omitempty"`
	Value     json.RawMessage `json:"value"`
}

// EventsPoll reads up to `limit` recently published transaction events
// from the configured topic. Diagnostic endpoint; it never touches the
// database.
func (h *Handlers) EventsPoll(c *gin.Context) {
	if len(h.KafkaBrokers) == 0 || h.KafkaTopic == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Kafka not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 1000 {
		limit = 10
	}
	timeoutMS, _ := strconv.Atoi(c.DefaultQuery("timeout_ms", "1500"))
	if timeoutMS < 100 {
		timeoutMS = 100
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   h.KafkaBrokers,
		Topic:     h.KafkaTopic,
		Partition: 0,
		MinBytes:  1e3,  // 1KB
		MaxBytes:  10e6, // 10MB
		MaxWait:   200 * time.Millisecond,
	})
	defer r.Close()

	_ = r.SetOffset(kafka.FirstOffset)

	events := make([]EventView, 0, limit)
	for i := 0; i < limit; i++ {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			// Return partial data + error
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"topic":    h.KafkaTopic,
				"received": len(events),
				"error":    err.Error(),
				"events":   events,
			})
			return
		}

		view := EventView{
			Offset:    m.Offset,
			Partition: m.Partition,
			Time:      m.Time,
		}
		if len(m.Key) > 0 {
			view.Key = string(m.Key)
		}
		// Preserve JSON if it is JSON
		if json.Valid(m.Value) {
			view.Value = json.RawMessage(m.Value)
		} else {
			b, _ := json.Marshal(string(m.Value))
			view.Value = json.RawMessage(b)
		}
		events = append(events, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"topic":  h.KafkaTopic,
		"count":  len(events),
		"events": events,
	})
}
