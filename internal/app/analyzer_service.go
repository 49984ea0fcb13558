package app

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"medichat/internal/model"
	"medichat/internal/modelapi"
	"medichat/internal/pkg/pdfreport"
	"medichat/internal/presenter"
)

var (
	ErrSymptomsEmpty = errors.New("symptoms are empty")
	// ErrPredictionNotFound covers both absence and denied access, so a
	// foreign caller cannot probe for record existence.
	ErrPredictionNotFound = errors.New("prediction not found")
)

type HealthChecker interface {
	CheckHealth(ctx context.Context) *modelapi.Health
}

type AnalyzerService struct {
	predictionStore PredictionStore
	userStore       UserStore
	predictor       DiseasePredictor
	health          HealthChecker
}

// AnalysisRecord pairs the stored prediction row with the raw gateway result.
type AnalysisRecord struct {
	Prediction *model.Prediction `json:"prediction"`
	Result     *modelapi.Result  `json:"result"`
}

func NewAnalyzerService(
	predictionStore PredictionStore,
	userStore UserStore,
	predictor DiseasePredictor,
	health HealthChecker,
) *AnalyzerService {
	return &AnalyzerService{
		predictionStore: predictionStore,
		userStore:       userStore,
		predictor:       predictor,
		health:          health,
	}
}

// Predict joins the symptom list, forwards it to the model service, and
// persists the result against the caller. userID zero means anonymous use;
// the result is returned without persistence.
func (s *AnalyzerService) Predict(ctx context.Context, userID uint, symptoms []string) (*AnalysisRecord, error) {
	joined := strings.TrimSpace(strings.Join(symptoms, ", "))
	if joined == "" {
		return nil, ErrSymptomsEmpty
	}

	var upstreamUser string
	if userID != 0 {
		upstreamUser = strconv.FormatUint(uint64(userID), 10)
	}

	result, err := s.predictor.Predict(ctx, joined, upstreamUser)
	if err != nil {
		return nil, err
	}

	record := &AnalysisRecord{Result: result}
	if userID != 0 && result.Disease != "" {
		prediction := &model.Prediction{
			UserID:   userID,
			Symptoms: joined,
			Diseases: []string{result.Disease},
			Response: presenter.FormatPrediction(result),
		}
		if err := s.predictionStore.Create(prediction); err != nil {
			return nil, err
		}
		record.Prediction = prediction
	}
	return record, nil
}

func (s *AnalyzerService) ListPredictions(userID uint) ([]model.Prediction, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.predictionStore.ListByUserID(userID)
}

func (s *AnalyzerService) ListAllPredictions() ([]model.Prediction, error) {
	return s.predictionStore.ListAll()
}

// GetPrediction enforces ownership: only the owner or an admin may read a
// record, everyone else sees not-found.
func (s *AnalyzerService) GetPrediction(id, callerID uint, callerRole string) (*model.Prediction, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	prediction, err := s.predictionStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, ErrPredictionNotFound
	}
	if prediction.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, ErrPredictionNotFound
	}
	return prediction, nil
}

// PredictionPDF renders a stored prediction as a downloadable report, under
// the same access rule as GetPrediction.
func (s *AnalyzerService) PredictionPDF(id, callerID uint, callerRole string) ([]byte, error) {
	prediction, err := s.GetPrediction(id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	ownerName := ""
	if owner, ownerErr := s.userStore.GetByID(prediction.UserID); ownerErr == nil && owner != nil {
		ownerName = owner.Name
	}
	return pdfreport.Render(prediction, ownerName)
}

func (s *AnalyzerService) Health(ctx context.Context) *modelapi.Health {
	return s.health.CheckHealth(ctx)
}
