package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/janakural/internal/models"
	"github.com/janakural/pkg/utils"
)

// Gin 上下文中保存的键
const (
	ContextAdminID = "adminID"
	ContextPhone   = "phone"
	ContextRole    = "role"
	ContextJTI     = "jti"
	ContextExp     = "exp"
)

const tokenIssuer = "janakural"

// Claims 定义了JWT中存储的自定义声明。
// JTI (ID) 会通过内嵌的 jwt.RegisteredClaims 提供
type Claims struct {
	AdminID string `json:"admin_id"`
	Phone   string `json:"phone"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Manager 负责签发和校验管理员 Token，并维护已登出 Token 的拒绝列表。
// 拒绝列表保存在内存中，服务重启会丢失。
type Manager struct {
	secret []byte
	ttl    time.Duration

	mu       sync.RWMutex
	denylist map[string]time.Time
}

// NewManager 创建 Token 管理器
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: make(map[string]time.Time),
	}
}

// Issue 为管理员签发 Token，返回 Token 字符串和过期时间
func (m *Manager) Issue(admin *models.Administrator) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.ttl)
	claims := &Claims{
		AdminID: admin.ID,
		Phone:   admin.Phone,
		Role:    string(admin.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{"admin"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Revoke 将JTI添加到拒绝列表，并清理已过期的条目。
func (m *Manager) Revoke(jti string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.denylist[jti] = expiresAt

	now := time.Now()
	for id, exp := range m.denylist {
		if now.After(exp) {
			delete(m.denylist, id)
		}
	}
}

// IsRevoked 检查JTI是否在拒绝列表中且尚未过期。
func (m *Manager) IsRevoked(jti string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expTime, found := m.denylist[jti]
	if !found {
		return false
	}
	return time.Now().Before(expTime)
}

// Parse 校验 Token 字符串并返回声明
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 确保token的签名方法是我们期望的 HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Middleware 是一个Gin中间件，用于验证JWT。
// 它从 Authorization 请求头中提取 Bearer Token。
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondUnauthorizedError(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondUnauthorizedError(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := m.Parse(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenMalformed):
				utils.RespondUnauthorizedError(c, "Token is malformed")
			case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
				utils.RespondUnauthorizedError(c, "Token is expired or not valid yet")
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				utils.RespondUnauthorizedError(c, "Invalid token signature")
			default:
				utils.RespondUnauthorizedError(c, "Invalid token: "+err.Error())
			}
			return
		}

		if claims.ID == "" || claims.AdminID == "" {
			utils.RespondUnauthorizedError(c, "Token missing required claims")
			return
		}
		if m.IsRevoked(claims.ID) {
			utils.RespondUnauthorizedError(c, "Token has been invalidated (logged out)")
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextPhone, claims.Phone)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RequireRoles 只允许指定角色访问，必须放在 Middleware 之后
func RequireRoles(roles ...models.AdminRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.AdminRole(c.GetString(ContextRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.RespondForbiddenError(c)
	}
}

// CurrentAdminID 返回当前请求的管理员ID
func CurrentAdminID(c *gin.Context) string {
	return c.GetString(ContextAdminID)
}
