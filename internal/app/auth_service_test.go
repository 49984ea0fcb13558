package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"medichat/internal/model"
	"medichat/internal/pkg/jwtutil"
)

// MockUserStore is a mock implementation of UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserStore) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(id uint) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) UpdateProfileImage(id uint, filename string) error {
	args := m.Called(id, filename)
	return args.Error(0)
}

func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name          string
		input         SignUpInput
		setupMock     func(*MockUserStore)
		expectedError error
	}{
		{
			name:  "successful signup",
			input: SignUpInput{Name: "Amina Ali", Email: "amina@example.com", Password: "secret123"},
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", "amina@example.com").Return(nil, nil)
				m.On("Create", mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email is lowercased before lookup",
			input: SignUpInput{Name: "Amina Ali", Email: "AMINA@Example.COM", Password: "secret123"},
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", "amina@example.com").Return(nil, nil)
				m.On("Create", mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email already taken",
			input: SignUpInput{Name: "Amina Ali", Email: "amina@example.com", Password: "secret123"},
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", "amina@example.com").Return(&model.User{ID: 7, Email: "amina@example.com"}, nil)
			},
			expectedError: ErrEmailExists,
		},
		{
			name:  "duplicate insert loses the race",
			input: SignUpInput{Name: "Amina Ali", Email: "amina@example.com", Password: "secret123"},
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", "amina@example.com").Return(nil, nil)
				m.On("Create", mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: ErrEmailExists,
		},
		{
			name:          "password too short",
			input:         SignUpInput{Name: "Amina Ali", Email: "amina@example.com", Password: "abc"},
			setupMock:     func(m *MockUserStore) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:          "missing name",
			input:         SignUpInput{Name: "  ", Email: "amina@example.com", Password: "secret123"},
			setupMock:     func(m *MockUserStore) {},
			expectedError: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockUserStore)
			tt.setupMock(mockStore)

			service := NewAuthService(mockStore, "test-secret", time.Hour)
			user, err := service.SignUp(tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, "amina@example.com", user.Email)
				assert.Equal(t, model.RolePatient, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_CreateAdmin(t *testing.T) {
	mockStore := new(MockUserStore)
	mockStore.On("GetByEmail", "boss@example.com").Return(nil, nil)
	mockStore.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	service := NewAuthService(mockStore, "test-secret", time.Hour)
	admin, err := service.CreateAdmin(SignUpInput{Name: "Boss", Email: "boss@example.com", Password: "secret123"})

	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	mockStore.AssertExpectations(t)
}

func TestAuthService_SignIn(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	storedUser := &model.User{
		ID:           42,
		Name:         "Amina Ali",
		Email:        "amina@example.com",
		PasswordHash: string(hashedPassword),
		Role:         model.RolePatient,
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserStore)
		expectedError error
	}{
		{
			name:     "successful signin",
			email:    "amina@example.com",
			password: "secret123",
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", "amina@example.com").Return(storedUser, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "secret123",
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", "nobody@example.com").Return(nil, nil)
			},
			expectedError: ErrInvalidCredential,
		},
		{
			name:     "wrong password",
			email:    "amina@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserStore) {
				m.On("GetByEmail", "amina@example.com").Return(storedUser, nil)
			},
			expectedError: ErrInvalidCredential,
		},
		{
			name:          "empty email",
			email:         "",
			password:      "secret123",
			setupMock:     func(m *MockUserStore) {},
			expectedError: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockUserStore)
			tt.setupMock(mockStore)

			service := NewAuthService(mockStore, "test-secret", time.Hour)
			result, err := service.SignIn(tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.Token)
				assert.Equal(t, storedUser.Email, result.User.Email)

				claims, parseErr := jwtutil.ParseToken("test-secret", result.Token)
				assert.NoError(t, parseErr)
				assert.Equal(t, storedUser.ID, claims.UserID)
				assert.Equal(t, storedUser.Email, claims.Email)
				assert.Equal(t, storedUser.Name, claims.Name)
				assert.Equal(t, storedUser.Role, claims.Role)
			}

			mockStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateProfileImage(t *testing.T) {
	t.Run("updates existing user", func(t *testing.T) {
		mockStore := new(MockUserStore)
		mockStore.On("GetByID", uint(42)).Return(&model.User{ID: 42}, nil)
		mockStore.On("UpdateProfileImage", uint(42), "profile-42-abc.png").Return(nil)

		service := NewAuthService(mockStore, "test-secret", time.Hour)
		err := service.UpdateProfileImage(42, "profile-42-abc.png")

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockStore := new(MockUserStore)
		mockStore.On("GetByID", uint(99)).Return(nil, nil)

		service := NewAuthService(mockStore, "test-secret", time.Hour)
		err := service.UpdateProfileImage(99, "profile-99-abc.png")

		assert.ErrorIs(t, err, ErrUserNotFound)
		mockStore.AssertExpectations(t)
	})

	t.Run("empty filename", func(t *testing.T) {
		service := NewAuthService(new(MockUserStore), "test-secret", time.Hour)
		assert.ErrorIs(t, service.UpdateProfileImage(42, ""), ErrInvalidInput)
	})
}
