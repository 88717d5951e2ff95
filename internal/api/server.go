package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/GoDiagnose/internal/predictor"
	"github.com/Skufu/GoDiagnose/internal/store"
)

// Classifier is the trained model as the handlers see it.
type Classifier interface {
	Predict(symptoms []string) (*predictor.Prediction, error)
	Symptoms() []string
	Diseases() []string
}

// Recorder persists served predictions.
type Recorder interface {
	RecordPrediction(ctx context.Context, rec store.PredictionRecord) error
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Deps is everything the handlers need. It is built once at startup.
type Deps struct {
	Classifier Classifier
	// Recorder and DB are optional.
	Recorder     Recorder
	DB           HealthChecker
	AllowOrigins []string
	MaxBodyBytes int64
	Now          func() time.Time
}

// Server holds the read-only state shared by all requests.
type Server struct {
	classifier Classifier
	recorder   Recorder
	db         HealthChecker
	now        func() time.Time

	symptoms   []string
	diseases   int
	categories map[string][]string
}

func NewServer(d Deps) *Server {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	symptoms := d.Classifier.Symptoms()
	return &Server{
		classifier: d.Classifier,
		recorder:   d.Recorder,
		db:         d.DB,
		now:        now,
		symptoms:   symptoms,
		diseases:   len(d.Classifier.Diseases()),
		categories: categorize(symptoms),
	}
}

// NewRouter builds the gin engine for d.
func NewRouter(d Deps) *gin.Engine {
	s := NewServer(d)

	origins := d.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20 // 1MB
	}

	router := gin.New()
	router.Use(
		requestLogger(),
		recoverJSON(),
		limitBodySize(maxBody),
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/", s.home)
	router.GET("/healthz", s.healthz)
	router.GET("/readyz", s.readyz)

	api := router.Group("/api")
	{
		api.GET("/symptoms", s.listSymptoms)
		api.POST("/predict", s.predict)
		api.GET("/health", s.health)
	}

	return router
}

func (s *Server) timestamp() string {
	return s.now().Format(time.RFC3339)
}
