package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/accounts"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const maxPINLength = 6

type credentials struct {
	Phone       string `json:"phone"`
	PIN         string `json:"pin"`
	DisplayName string `json:"display_name"`
}

// IssueToken signs a player JWT
func IssueToken(cfg *config.Config, playerID int, phone string) (string, time.Time, error) {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{"player_id": playerID, "phone": phone, "exp": exp.Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func validPIN(cfg *config.Config, pin string) bool {
	min := cfg.MinPINLength
	if min <= 0 {
		min = 4
	}
	return isDigits(pin) && len(pin) >= min && len(pin) <= maxPINLength
}

// Register creates a player with a hashed PIN and funds their wallet
func Register(db *sqlx.DB, wallet *accounts.Wallet, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin required"})
			return
		}
		phone := normalizePhone(req.Phone)
		if phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
			return
		}
		if !validPIN(cfg, req.PIN) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("pin must be %d-%d digits", cfg.MinPINLength, maxPINLength)})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[AUTH] Failed to hash PIN: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		displayName := strings.TrimSpace(req.DisplayName)
		var playerID int
		err = db.QueryRowx(`INSERT INTO players (phone_number, display_name, pin_hash, created_at, is_active) VALUES ($1, $2, $3, NOW(), true) ON CONFLICT (phone_number) DO NOTHING RETURNING id`,
			phone, displayName, string(hash)).Scan(&playerID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusConflict, gin.H{"error": "phone already registered"})
			return
		}
		if err != nil {
			log.Printf("[AUTH] Failed to create player %s: %v", phone, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if cfg.StartingScore > 0 {
			if err := wallet.Fund(c.Request.Context(), playerID, decimal.NewFromFloat(cfg.StartingScore)); err != nil {
				log.Printf("[ACCT] Failed to fund new player %d: %v", playerID, err)
			}
		}

		token, exp, err := IssueToken(cfg, playerID, phone)
		if err != nil {
			log.Printf("[AUTH] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		log.Printf("[AUTH] Registered player %d (%s)", playerID, phone)
		c.JSON(http.StatusCreated, gin.H{
			"token":      token,
			"expires_at": exp.Format(time.RFC3339),
			"player":     gin.H{"id": playerID, "phone": phone, "display_name": displayName},
		})
	}
}

// Login verifies phone + PIN and issues a JWT
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone and pin required"})
			return
		}
		phone := normalizePhone(req.Phone)

		var player models.Player
		err := db.Get(&player, `SELECT id, phone_number, display_name, pin_hash, created_at, is_active, is_blocked, last_active FROM players WHERE phone_number=$1`, phone)
		if err != nil || !player.PinHash.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or pin"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(player.PinHash.String), []byte(req.PIN)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or pin"})
			return
		}
		if player.IsBlocked || !player.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		if _, err := db.Exec(`UPDATE players SET last_active=NOW() WHERE id=$1`, player.ID); err != nil {
			log.Printf("[DB] Failed to update last_active for player %d: %v", player.ID, err)
		}

		token, exp, err := IssueToken(cfg, player.ID, phone)
		if err != nil {
			log.Printf("[AUTH] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": exp.Format(time.RFC3339),
			"player":     gin.H{"id": player.ID, "phone": phone, "display_name": player.DisplayName},
		})
	}
}

// AuthMiddleware validates the player JWT and sets player_id in context.
// The token comes from the Authorization header, or from the token query
// parameter for WebSocket upgrades.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		} else {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		playerIDf, ok := claims["player_id"].(float64)
		if !ok || playerIDf <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("player_id", int(playerIDf))
		c.Next()
	}
}
