package jwt

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/internal/utils"
)

type (
	JWTService interface {
		GenerateTokenMechanic(mechanicID uint, email string, role string) string
		ValidateTokenMechanic(token string) (*jwt.Token, error)
		GetMechanicByToken(token string) (uint, string, error)
	}

	jwtMechanicClaim struct {
		MechanicID uint   `json:"mechanic_id"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	utils.LoadConfig()
	return utils.GetConfig("JWT_SECRET")
}

func NewJWTService() JWTService {
	return &jwtService{
		secretKey: getSecretKey(),
		issuer:    "DVIC",
	}
}

func (j *jwtService) GenerateTokenMechanic(mechanicID uint, email string, role string) string {
	claims := jwtMechanicClaim{
		mechanicID,
		email,
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Println(err)
	}
	return signed
}

func (j *jwtService) parseToken(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenMechanic(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtMechanicClaim{}, j.parseToken)
}

// GetMechanicByToken returns the mechanic id and role carried by a
// valid bearer token.
func (j *jwtService) GetMechanicByToken(token string) (uint, string, error) {
	parsed, err := j.ValidateTokenMechanic(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", domain.ErrTokenExpired
		}
		return 0, "", domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return 0, "", domain.ErrTokenInvalid
	}

	claims := parsed.Claims.(*jwtMechanicClaim)
	return claims.MechanicID, claims.Role, nil
}
