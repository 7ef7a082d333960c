package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/cinema-backoffice/internal/model"
)

// ErrInvalidTicket is returned for tickets that are malformed, expired or
// signed with another secret.
var ErrInvalidTicket = errors.New("invalid ticket")

// Ticket is a signed session ticket handed to HTTP clients after sign-in.
// It names the signed-in identity; the server still checks it against the
// live session on every request.
type Ticket struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires_at"`
}

// TicketClaims is what a verified ticket asserts.  SessionID is the jti
// claim, the ID of the session the ticket was issued for.
type TicketClaims struct {
	Username  string
	Role      model.Role
	SessionID string
}

// Tickets issues and verifies HS256 session tickets.
type Tickets struct {
	secret []byte
	ttl    time.Duration
}

func NewTickets(secret string, ttl time.Duration) *Tickets {
	return &Tickets{secret: []byte(secret), ttl: ttl}
}

// Issue signs a ticket for s carrying the sub, role, jti, exp and iat
// claims.
func (t *Tickets) Issue(s Session) (Ticket, error) {
	now := time.Now().UTC()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"sub":  s.User.Username,
		"role": string(s.User.Role),
		"jti":  s.ID,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Ticket{}, fmt.Errorf("sign ticket: %w", err)
	}
	return Ticket{Token: signed, Exp: exp}, nil
}

// Parse verifies raw and returns its claims.
func (t *Tickets) Parse(raw string) (TicketClaims, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidTicket
		}
		return t.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return TicketClaims{}, ErrInvalidTicket
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TicketClaims{}, ErrInvalidTicket
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" {
		return TicketClaims{}, ErrInvalidTicket
	}
	return TicketClaims{Username: sub, Role: model.Role(role), SessionID: jti}, nil
}
