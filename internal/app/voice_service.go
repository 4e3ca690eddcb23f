package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// VoiceService mints access tokens for a table's voice channel. Tokens are
// HMAC-SHA256 JWTs in the Vivox claim format the voice backend verifies.
type VoiceService struct {
	secret string
	issuer string
	domain string
}

const (
	VoiceTokenActionLogin = "login"
	VoiceTokenActionJoin  = "join"

	voiceTokenTTL = time.Hour
)

// NewVoiceService constructs a token service from voice backend credentials.
func NewVoiceService(secret, issuer, domain string) *VoiceService {
	return &VoiceService{
		secret: secret,
		issuer: issuer,
		domain: domain,
	}
}

// GenerateToken signs a token allowing user to log in to voice or join the
// voice channel of the given room code.
func (s *VoiceService) GenerateToken(user, action, roomCode string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, roomCode, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(voiceTokenTTL).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

// channelURI names the conference channel for one table.
func (s *VoiceService) channelURI(roomCode string) string {
	return "sip:confctl-g-table-" + roomCode + "@" + s.domain
}

func (s *VoiceService) targetURI(action, roomCode, userURI string) (string, error) {
	switch action {
	case VoiceTokenActionLogin:
		return userURI, nil
	case VoiceTokenActionJoin:
		if roomCode == "" {
			return "", fmt.Errorf("room code is required for join tokens")
		}
		return s.channelURI(roomCode), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}
}
