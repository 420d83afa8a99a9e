package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
// Tokens are minted by the external identity collaborator; this package only
// needs to agree on the claim shape to authenticate baker-scoped routes.
type AccessTokenPayload struct {
	BakerID uuid.UUID
	Email   string
	JTI     string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	BakerID uuid.UUID `json:"baker_id"`
	Email   string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
