package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpiry        = 7 * 24 * time.Hour
	minPasswordLen   = 4
	minUsernameLen   = 2
	maxUsernameLen   = 16
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
	secretSettingKey = "jwt_secret"
)

// bcryptCost is a var so tests can drop it to bcrypt.MinCost
var bcryptCost = 12

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrRateLimited    = errors.New("too many login attempts, try again later")
)

// Auth handles pilot accounts and JWT sessions
type Auth struct {
	db        *DB
	jwtSecret []byte

	// login attempts per remote address
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth creates a new Auth handler
func NewAuth(db *DB) *Auth {
	return &Auth{
		db:        db,
		jwtSecret: loadOrCreateSecret(db),
		rateMap:   make(map[string]*rateEntry),
	}
}

// loadOrCreateSecret keeps tokens valid across restarts by storing the
// signing key in settings.
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting(secretSettingKey); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting(secretSettingKey, hex.EncodeToString(secret)); err != nil {
			log.Warn().Err(err).Msg("could not persist JWT secret")
		}
	}
	return secret
}

// Register creates a new account and returns its ID and a token
func (a *Auth) Register(username, password string) (int64, string, error) {
	username = strings.TrimSpace(username)

	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return 0, "", fmt.Errorf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return 0, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	exists, err := a.db.UsernameExists(username)
	if err != nil {
		log.Error().Err(err).Msg("username lookup failed")
		return 0, "", errors.New("database error")
	}
	if exists {
		return 0, "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, "", errors.New("internal error")
	}

	id, err := a.db.CreatePilot(username, string(hash))
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("create pilot failed")
		return 0, "", errors.New("failed to create account")
	}

	token, err := a.generateToken(id, username)
	if err != nil {
		return 0, "", errors.New("internal error")
	}
	return id, token, nil
}

// Login checks credentials and returns the pilot ID and a fresh token
func (a *Auth) Login(username, password, ip string) (int64, string, error) {
	if !a.checkRate(ip) {
		return 0, "", ErrRateLimited
	}

	pilot, err := a.db.GetPilotByUsername(strings.TrimSpace(username))
	if err != nil {
		log.Error().Err(err).Msg("pilot lookup failed")
		return 0, "", errors.New("database error")
	}
	if pilot == nil || pilot.PassHash == "" {
		return 0, "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pilot.PassHash), []byte(password)); err != nil {
		return 0, "", ErrBadCredentials
	}

	token, err := a.generateToken(pilot.ID, pilot.Username)
	if err != nil {
		return 0, "", errors.New("internal error")
	}
	return pilot.ID, token, nil
}

// ValidateToken validates a JWT and returns (pilotID, username, error)
func (a *Auth) ValidateToken(tokenStr string) (int64, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	pid, ok := claims["pid"].(float64)
	if !ok {
		return 0, "", errors.New("invalid token claims")
	}
	username, ok := claims["usr"].(string)
	if !ok {
		return 0, "", errors.New("invalid token claims")
	}
	return int64(pid), username, nil
}

func (a *Auth) generateToken(pilotID int64, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"pid": pilotID,
		"usr": username,
		"exp": now.Add(jwtExpiry).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxLoginAttempts
}

// GuestName creates a pilot name like "Pilot_a3f2c1"
func GuestName() string {
	return "Pilot_" + GenerateID(3)
}
