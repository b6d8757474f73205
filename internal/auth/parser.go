package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/mowops-settlement/internal/model"
)

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (p *Parser) Parse(token string) (model.Principal, error) {
	parsed := claims{}
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}

	userID, err := uuid.Parse(strings.TrimSpace(parsed.UserID))
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid user_id claim: %w", err)
	}

	role := model.Role(strings.ToUpper(strings.TrimSpace(parsed.Role)))
	switch role {
	case model.RoleCustomer, model.RoleContractor, model.RoleAdmin:
	default:
		return model.Principal{}, fmt.Errorf("unknown role claim %q", parsed.Role)
	}

	return model.Principal{
		UserID: userID,
		Role:   role,
		Email:  parsed.Email,
	}, nil
}
