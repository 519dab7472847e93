package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/student"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
}

// jwtAuth issues and verifies student tokens.
type jwtAuth struct {
	conf   *core.Config
	config middleware.JWTConfig
}

func newJWTAuth(conf *core.Config) *jwtAuth {
	return &jwtAuth{
		conf: conf,
		config: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    "studentToken",
			Claims:        new(Claims),
		},
	}
}

func (a *jwtAuth) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.config)
}

func (a *jwtAuth) claims(std student.Student, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   std.ID.Hex(),
			Audience:  "Students",
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Name:         std.Name,
		Email:        std.Email,
	}
}

// generateToken generates a signed JWT token string representing the Claims.
func (a *jwtAuth) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.config.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.config.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func (a *jwtAuth) getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(a.config.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// ownStudentMiddleware restricts a /students/:id subtree to the token owner.
// A foreign or malformed id reads as not found rather than forbidden so the
// response does not leak account existence.
func ownStudentMiddleware(auth *jwtAuth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := auth.getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
			if err != nil || claims.Subject != id.Hex() {
				return errHttpNotFound
			}
			ctx.Set(contextStudentIDKey, id)
			return next(ctx)
		}
	}
}

var contextStudentIDKey = "studentID"

func contextStudentID(ctx echo.Context) (primitive.ObjectID, error) {
	if id, ok := ctx.Get(contextStudentIDKey).(primitive.ObjectID); ok {
		return id, nil
	}
	return primitive.ObjectID{}, errUnauthorized
}
