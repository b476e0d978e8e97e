package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"citizen-services/internal/domain"
)

// JWTService issues and validates bearer tokens. Tokens are short lived and
// there is no refresh or revocation mechanism; a token stays valid until it
// expires naturally.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// Subject types carried in the typ claim.
const (
	TokenTypeUser  = "user"
	TokenTypeAdmin = "admin"
)

// Claims carry the subject's scalar fields, never relation objects. Citizen
// tokens embed every scalar column of the user record so a decoded token is
// a self-contained snapshot of the account at login time.
type Claims struct {
	UserID        string   `json:"uid"`
	Name          string   `json:"name,omitempty"`
	Email         string   `json:"email"`
	CitizenshipNo string   `json:"citizenship_no,omitempty"`
	Address       string   `json:"address,omitempty"`
	FatherName    string   `json:"father_name,omitempty"`
	MotherName    string   `json:"mother_name,omitempty"`
	DateOfBirth   string   `json:"dob,omitempty"`
	IssueDate     string   `json:"issue_date,omitempty"`
	PanNumber     string   `json:"pan_number,omitempty"`
	PanIssueDate  string   `json:"pan_issue_date,omitempty"`
	Salary        *float64 `json:"salary,omitempty"`
	IsActive      bool     `json:"is_active,omitempty"`
	TokenType     string   `json:"typ"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "citizen-services",
	}
}

// TTLSeconds reports the token lifetime in seconds.
func (s *JWTService) TTLSeconds() int64 {
	return int64(s.ttl.Seconds())
}

// GenerateUserToken signs a token for an authenticated citizen.
func (s *JWTService) GenerateUserToken(user domain.User) (string, error) {
	return s.signToken(Claims{
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		CitizenshipNo: user.CitizenshipNo,
		Address:       user.Address,
		FatherName:    user.FatherName,
		MotherName:    user.MotherName,
		DateOfBirth:   user.DateOfBirth,
		IssueDate:     user.IssueDate,
		PanNumber:     user.PanNumber,
		PanIssueDate:  user.PanIssueDate,
		Salary:        user.Salary,
		IsActive:      user.IsActive,
		TokenType:     TokenTypeUser,
	}, user.ID)
}

// GenerateAdminToken signs a token for a verified admin.
func (s *JWTService) GenerateAdminToken(admin domain.Admin) (string, error) {
	return s.signToken(Claims{
		UserID:    admin.ID,
		Email:     admin.Email,
		TokenType: TokenTypeAdmin,
	}, admin.ID)
}

// ParseToken validates a signed token and returns its claims.
func (s *JWTService) ParseToken(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrJWTInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrJWTInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) signToken(claims Claims, subject string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	if claims.TokenType != TokenTypeUser && claims.TokenType != TokenTypeAdmin {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
