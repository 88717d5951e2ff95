package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Skufu/GoDiagnose/internal/predictor"
	"github.com/Skufu/GoDiagnose/internal/recommend"
	"github.com/Skufu/GoDiagnose/internal/store"
)

const (
	defaultAge    = 25
	defaultWeight = 70

	noMatchSuggestion = "Please check symptom spelling or use symptoms from the available list"
)

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	Symptoms []string `json:"symptoms"`
	Age      *float64 `json:"age"`
	Weight   *float64 `json:"weight"`
}

type PredictResponse struct {
	RequestID            string                   `json:"request_id"`
	PrimaryPrediction    predictor.Ranked         `json:"primary_prediction"`
	TopPredictions       []predictor.Ranked       `json:"top_predictions"`
	MatchedSymptoms      []string                 `json:"matched_symptoms"`
	TotalSymptomsMatched int                      `json:"total_symptoms_matched"`
	Recommendation       recommend.Recommendation `json:"recommendation"`
	Timestamp            string                   `json:"timestamp"`
	PatientInfo          recommend.Patient        `json:"patient_info"`
}

type SymptomsResponse struct {
	TotalCount int                 `json:"total_count"`
	Symptoms   []string            `json:"symptoms"`
	Categories map[string][]string `json:"categories"`
}

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"message":        "AI Diagnostic API is running",
		"timestamp":      s.timestamp(),
		"total_symptoms": len(s.symptoms),
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"model_loaded":    s.classifier != nil,
		"symptoms_loaded": len(s.symptoms) > 0,
		"total_symptoms":  len(s.symptoms),
		"total_diseases":  s.diseases,
		"timestamp":       s.timestamp(),
	})
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) readyz(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"db":     fmt.Sprintf("unhealthy: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}

func (s *Server) listSymptoms(c *gin.Context) {
	c.JSON(http.StatusOK, SymptomsResponse{
		TotalCount: len(s.symptoms),
		Symptoms:   s.symptoms,
		Categories: s.categories,
	})
}

func (s *Server) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	patient := recommend.Patient{Age: defaultAge, Weight: defaultWeight}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Weight != nil {
		patient.Weight = *req.Weight
	}

	pred, err := s.classifier.Predict(req.Symptoms)
	switch {
	case errors.Is(err, predictor.ErrInsufficientInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No symptoms provided"})
		return
	case errors.Is(err, predictor.ErrNoMatchingSymptoms):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "No matching symptoms found",
			"suggestion": noMatchSuggestion,
		})
		return
	case err != nil:
		reportError(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed: " + err.Error()})
		return
	}

	rec := recommend.Recommend(pred.Primary.Disease, pred.Primary.Confidence, patient)
	now := s.now()
	id := c.GetString(requestIDKey)
	if id == "" {
		id = uuid.NewString()
	}

	s.record(c, id, req.Symptoms, pred, rec, patient, now)

	c.JSON(http.StatusOK, PredictResponse{
		RequestID:            id,
		PrimaryPrediction:    pred.Primary,
		TopPredictions:       pred.Top,
		MatchedSymptoms:      pred.Matched,
		TotalSymptomsMatched: pred.MatchCount(),
		Recommendation:       rec,
		Timestamp:            now.Format(time.RFC3339),
		PatientInfo:          patient,
	})
}

// record writes the audit entry. Failures are logged and never fail the request.
func (s *Server) record(c *gin.Context, id string, input []string, pred *predictor.Prediction, rec recommend.Recommendation, patient recommend.Patient, now time.Time) {
	if s.recorder == nil {
		return
	}

	err := s.recorder.RecordPrediction(c.Request.Context(), store.PredictionRecord{
		ID:         uuid.New(),
		RequestID:  id,
		Symptoms:   input,
		Matched:    pred.Matched,
		Disease:    pred.Primary.Disease,
		Confidence: pred.Primary.Confidence,
		Level:      string(rec.Level),
		Age:        patient.Age,
		Weight:     patient.Weight,
		CreatedAt:  now.UTC(),
	})
	if err != nil {
		logrus.WithField("request_id", id).WithError(err).Warn("failed to record prediction")
	}
}
