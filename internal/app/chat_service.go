package app

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"medichat/internal/model"
	"medichat/internal/modelapi"
	"medichat/internal/presenter"
	"medichat/internal/repository"
)

var (
	ErrMessageEmpty   = errors.New("message content is empty")
	ErrMessageEnqueue = errors.New("message enqueue failed")
)

// FallbackResponse is returned and persisted when the prediction service is
// unavailable; gateway failures never reach the transport layer.
const FallbackResponse = "I'm sorry, I couldn't analyze your symptoms properly. Could you provide more details about how you're feeling?"

type AsyncTurnPublisher interface {
	Publish(ctx context.Context, msg model.ChatMessage) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, userID uint) ([]model.ChatMessage, bool, error)
	SetHistory(ctx context.Context, userID uint, messages []model.ChatMessage) error
	DeleteHistory(ctx context.Context, userID uint) error
	MarkDirty(ctx context.Context, userID uint) error
	IsDirty(ctx context.Context, userID uint) (bool, error)
}

type DiseasePredictor interface {
	Predict(ctx context.Context, symptoms, userID string) (*modelapi.Result, error)
}

type ChatMessageStore interface {
	ListByUserID(userID uint) ([]model.ChatMessage, error)
	ListAllWithUsers() ([]repository.ChatMessageWithUser, error)
}

type PredictionStore interface {
	Create(prediction *model.Prediction) error
	GetByID(id uint) (*model.Prediction, error)
	ListByUserID(userID uint) ([]model.Prediction, error)
	ListAll() ([]model.Prediction, error)
}

type ChatService struct {
	messageStore    ChatMessageStore
	predictionStore PredictionStore
	publisher       AsyncTurnPublisher
	historyCache    HistoryCache
	predictor       DiseasePredictor
}

// ChatOutcome is what the chat surface returns for one processed message.
type ChatOutcome struct {
	Response string           `json:"response"`
	Diseases []string         `json:"diseases"`
	Error    string           `json:"error,omitempty"`
	Result   *modelapi.Result `json:"result,omitempty"`
}

func NewChatService(
	messageStore ChatMessageStore,
	predictionStore PredictionStore,
	publisher AsyncTurnPublisher,
	historyCache HistoryCache,
	predictor DiseasePredictor,
) *ChatService {
	return &ChatService{
		messageStore:    messageStore,
		predictionStore: predictionStore,
		publisher:       publisher,
		historyCache:    historyCache,
		predictor:       predictor,
	}
}

// ProcessMessage appends the user's turn, asks the prediction service, and
// appends the bot's turn. A failing gateway degrades to FallbackResponse
// instead of an error; both turns are enqueued either way.
func (s *ChatService) ProcessMessage(ctx context.Context, userID uint, text string) (*ChatOutcome, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(text)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	if s.publisher == nil {
		return nil, ErrMessageEnqueue
	}

	s.invalidateHistory(ctx, userID)

	userTurn := model.ChatMessage{
		UserID:    userID,
		Sender:    model.SenderUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, userTurn); err != nil {
		return nil, ErrMessageEnqueue
	}

	result, err := s.predictor.Predict(ctx, content, strconv.FormatUint(uint64(userID), 10))
	if err != nil {
		log.Printf("predict for user %d failed: %v", userID, err)

		fallbackTurn := model.ChatMessage{
			UserID:    userID,
			Sender:    model.SenderBot,
			Content:   FallbackResponse,
			CreatedAt: time.Now(),
		}
		if pubErr := s.publisher.Publish(ctx, fallbackTurn); pubErr != nil {
			return nil, ErrMessageEnqueue
		}
		return &ChatOutcome{
			Response: FallbackResponse,
			Diseases: []string{},
			Error:    err.Error(),
		}, nil
	}

	responseText := presenter.FormatPrediction(result)
	diseases := []string{}
	if result.Disease != "" {
		diseases = append(diseases, result.Disease)
	}

	botTurn := model.ChatMessage{
		UserID:    userID,
		Sender:    model.SenderBot,
		Content:   responseText,
		CreatedAt: time.Now(),
	}
	if len(diseases) > 0 {
		botTurn.Diseases = diseases
	}
	if err := s.publisher.Publish(ctx, botTurn); err != nil {
		return nil, ErrMessageEnqueue
	}

	if result.Disease != "" {
		prediction := &model.Prediction{
			UserID:   userID,
			Symptoms: content,
			Diseases: diseases,
			Response: responseText,
		}
		if err := s.predictionStore.Create(prediction); err != nil {
			return nil, err
		}
	}

	return &ChatOutcome{
		Response: responseText,
		Diseases: diseases,
		Result:   result,
	}, nil
}

// GetHistory returns the user's turns oldest-first, served from the redis
// cache unless a recent write marked it dirty.
func (s *ChatService) GetHistory(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, userID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, userID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageStore.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, userID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, userID, messages)
		}
	}
	return messages, nil
}

// GetAllHistory is the admin view: every user's turns, each enriched with the
// owner's name and email.
func (s *ChatService) GetAllHistory(ctx context.Context) ([]repository.ChatMessageWithUser, error) {
	return s.messageStore.ListAllWithUsers()
}

func (s *ChatService) invalidateHistory(ctx context.Context, userID uint) {
	if s.historyCache == nil {
		return
	}
	_ = s.historyCache.MarkDirty(ctx, userID)
	_ = s.historyCache.DeleteHistory(ctx, userID)
}
