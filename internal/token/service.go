package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// 署名・iss・audのどれかが通らない（expは見ない）
var ErrInvalidToken = errors.New("invalid token")

// アクセストークンに載るクレーム一式。
// jti/sub/iss/aud/expはRegisteredClaims側に入る。
type Claims struct {
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewServiceは設定からトークンサービスを作る。
// シークレット未設定は設定ミスなので起動時に落とす。
func NewService(cfg config.Config) (*Service, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	if cfg.AccessTokenMinutes <= 0 {
		return nil, errors.New("access token validity must be positive")
	}
	if cfg.RefreshTokenMinutes <= 0 {
		return nil, errors.New("refresh token validity must be positive")
	}

	return &Service{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		audience:   cfg.JWTAudience,
		accessTTL:  time.Duration(cfg.AccessTokenMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshTokenMinutes) * time.Minute,
	}, nil
}

// GenerateAccessTokenはクレーム一式をHS256で署名して返す。
// iss/aud/iat/expはここで上書きし、jti/subなどは呼び出し側の値をそのまま使う。
func (s *Service) GenerateAccessToken(c Claims, now time.Time) (string, time.Time, error) {
	validTo := now.Add(s.accessTTL)

	c.Issuer = s.issuer
	c.Audience = jwt.ClaimStrings{s.audience}
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(validTo)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, validTo, nil
}

// GenerateRefreshTokenは128バイトの安全な乱数をbase64で返す。
// アクセストークンの中身とは無関係な不透明文字列。
func (s *Service) GenerateRefreshToken() (string, error) {
	b := make([]byte, 128)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// PrincipalFromExpiredTokenは期限切れのアクセストークンからクレームを取り出す。
// 署名・iss・audは検証し、expだけは意図的に見ない（refresh用）。
// HS256以外のalgはすべて拒否する。
func (s *Service) PrincipalFromExpiredToken(raw string) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		// alg差し替え（noneを含む）を閉じる
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || tok == nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	// expを飛ばした分、iss/audは手で確認する
	if claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}
	if !audienceContains(claims.Audience, s.audience) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RefreshTokenExpiryは新しいrefresh tokenの期限を返す。
func (s *Service) RefreshTokenExpiry(now time.Time) time.Time {
	return now.Add(s.refreshTTL)
}

func audienceContains(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
