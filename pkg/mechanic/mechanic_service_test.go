package mechanic

import (
	"context"
	"fmt"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/entities"
)

type fakeRepository struct {
	mechanics map[uint]*entities.Mechanic
	nextID    uint

	total     int64
	completed int64
	stats     MechanicStatsRow
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{mechanics: make(map[uint]*entities.Mechanic)}
}

func (r *fakeRepository) CreateMechanic(_ context.Context, mechanic *entities.Mechanic) error {
	r.nextID++
	mechanic.ID = r.nextID
	r.mechanics[mechanic.ID] = mechanic
	return nil
}

func (r *fakeRepository) GetMechanicByID(_ context.Context, id uint) (*entities.Mechanic, error) {
	mechanic, ok := r.mechanics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return mechanic, nil
}

func (r *fakeRepository) GetMechanicByEmail(_ context.Context, email string) (*entities.Mechanic, error) {
	for _, mechanic := range r.mechanics {
		if mechanic.Email == email {
			return mechanic, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) GetActiveMechanics(_ context.Context) ([]*entities.Mechanic, error) {
	var active []*entities.Mechanic
	for _, mechanic := range r.mechanics {
		if mechanic.Active {
			active = append(active, mechanic)
		}
	}
	return active, nil
}

func (r *fakeRepository) UpdateMechanic(_ context.Context, id uint, fields map[string]interface{}) error {
	mechanic, ok := r.mechanics[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := fields["name"]; ok {
		mechanic.Name = name.(string)
	}
	if phone, ok := fields["phone"]; ok {
		mechanic.Phone = phone.(string)
	}
	if certifications, ok := fields["certifications"]; ok {
		mechanic.Certifications = certifications.(string)
	}
	return nil
}

func (r *fakeRepository) CountInspections(_ context.Context, _ uint) (int64, int64, error) {
	return r.total, r.completed, nil
}

func (r *fakeRepository) GetMechanicStats(_ context.Context, _ uint) (*MechanicStatsRow, error) {
	return &r.stats, nil
}

type fakeJWTService struct{}

func (fakeJWTService) GenerateTokenMechanic(mechanicID uint, _ string, _ string) string {
	return fmt.Sprintf("token-%d", mechanicID)
}

func (fakeJWTService) ValidateTokenMechanic(_ string) (*jwtlib.Token, error) {
	return nil, domain.ErrTokenInvalid
}

func (fakeJWTService) GetMechanicByToken(_ string) (uint, string, error) {
	return 0, "", domain.ErrTokenInvalid
}

func newTestService() (MechanicService, *fakeRepository) {
	repo := newFakeRepository()
	return NewMechanicService(repo, fakeJWTService{}), repo
}

func seedMechanic(repo *fakeRepository, email, password string, active bool) *entities.Mechanic {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	repo.nextID++
	mechanic := &entities.Mechanic{
		ID:           repo.nextID,
		Name:         "Sam",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleMechanic,
		Active:       active,
	}
	repo.mechanics[mechanic.ID] = mechanic
	return mechanic
}

func TestRegister(t *testing.T) {
	service, repo := newTestService()

	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Name:     "Sam",
		Email:    "sam@shop.test",
		Password: "hunter22",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleMechanic, res.User.Role)

	created := repo.mechanics[res.User.ID]
	assert.NotNil(t, created)
	assert.True(t, created.Active)
	assert.NotEqual(t, "hunter22", created.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, repo := newTestService()
	seedMechanic(repo, "sam@shop.test", "hunter22", true)

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Name:     "Other Sam",
		Email:    "sam@shop.test",
		Password: "different",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
	assert.Len(t, repo.mechanics, 1)
}

func TestLogin(t *testing.T) {
	service, repo := newTestService()
	mechanic := seedMechanic(repo, "sam@shop.test", "hunter22", true)

	res, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "sam@shop.test",
		Password: "hunter22",
	})
	assert.NoError(t, err)
	assert.Equal(t, mechanic.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, repo := newTestService()
	seedMechanic(repo, "sam@shop.test", "hunter22", true)

	_, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "sam@shop.test",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@shop.test",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_InactiveMechanic(t *testing.T) {
	service, repo := newTestService()
	seedMechanic(repo, "sam@shop.test", "hunter22", false)

	_, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "sam@shop.test",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGetMechanics_OnlyActive(t *testing.T) {
	service, repo := newTestService()
	seedMechanic(repo, "active@shop.test", "pw", true)
	seedMechanic(repo, "gone@shop.test", "pw", false)

	mechanics, err := service.GetMechanics(context.Background())
	assert.NoError(t, err)
	assert.Len(t, mechanics, 1)
	assert.Equal(t, "active@shop.test", mechanics[0].Email)
}

func TestGetMechanicByID_WithCounts(t *testing.T) {
	service, repo := newTestService()
	mechanic := seedMechanic(repo, "sam@shop.test", "pw", true)
	repo.total = 14
	repo.completed = 11

	res, err := service.GetMechanicByID(context.Background(), mechanic.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(14), res.TotalInspections)
	assert.Equal(t, int64(11), res.CompletedInspections)
}

func TestUpdateMechanic_EmptyPatch(t *testing.T) {
	service, repo := newTestService()
	mechanic := seedMechanic(repo, "sam@shop.test", "pw", true)

	err := service.UpdateMechanic(context.Background(), mechanic.ID, domain.UpdateMechanicRequest{})
	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

func TestUpdateMechanic(t *testing.T) {
	service, repo := newTestService()
	mechanic := seedMechanic(repo, "sam@shop.test", "pw", true)

	phone := "555-0134"
	err := service.UpdateMechanic(context.Background(), mechanic.ID, domain.UpdateMechanicRequest{Phone: &phone})
	assert.NoError(t, err)
	assert.Equal(t, "555-0134", mechanic.Phone)
	assert.Equal(t, "Sam", mechanic.Name)
}

func TestGetMechanicStats_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetMechanicStats(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrMechanicNotFound)
}

func TestGetMechanicStats(t *testing.T) {
	service, repo := newTestService()
	mechanic := seedMechanic(repo, "sam@shop.test", "pw", true)
	repo.stats = MechanicStatsRow{
		TotalInspections:     9,
		CompletedInspections: 6,
		AvgInspectionTime:    42.5,
	}

	stats, err := service.GetMechanicStats(context.Background(), mechanic.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), stats.TotalInspections)
	assert.Equal(t, 42.5, stats.AvgInspectionTime)
}
