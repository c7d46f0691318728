package models

import (
	"errors"
	"mantisbeanstalk/internal/db"
	"mantisbeanstalk/internal/env"
	"mantisbeanstalk/internal/errmsg"
	"mantisbeanstalk/internal/utils"
	"net/http"
	"strings"
	"time"

	sj "github.com/brianvoe/sjwt"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
)

var errUnauthorized = errors.New("unauthorized")

// ErrHyperUserNotExists is returned by Get for accounts without a password.
var ErrHyperUserNotExists = errors.New("hyperuser does not exist")

type HyperUser struct {
	Username string `json:"username" bson:"username"`
	Password string `json:"password" bson:"password"`
}

func (hu *HyperUser) GenToken() string {
	claims, _ := sj.ToClaims(HyperUser{Username: hu.Username})
	claims.SetExpiresAt(time.Now().Add(365 * 24 * time.Hour))

	token := claims.Generate(env.JWT_SECRET)
	return token
}

func (hu *HyperUser) ParseToken(token string) error {
	if !sj.Verify(token, env.JWT_SECRET) {
		return errUnauthorized
	}

	claims, err := sj.Parse(token)
	if err != nil {
		return err
	}

	if err := claims.Validate(); err != nil {
		return err
	}

	return claims.ToStruct(hu)
}

func AccountMiddleware(c fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.StatusError(c, errmsg.HyperUserNoToken)
	}
	if !strings.HasPrefix(authHeader, "Bearer") {
		return utils.Error(c, http.StatusUnauthorized, errUnauthorized)
	}

	tokens := strings.Fields(authHeader)
	if len(tokens) != 2 || tokens[1] == "" {
		return utils.Error(c, http.StatusUnauthorized, errUnauthorized)
	}

	var hyperuser HyperUser
	if err := hyperuser.ParseToken(tokens[1]); err != nil || hyperuser.Username == "" {
		return utils.Error(c, http.StatusUnauthorized, errUnauthorized)
	}

	utils.SetLocals(c, "hyperuser", hyperuser)

	return c.Next()
}

func (hu *HyperUser) Get(username string) (err error) {
	err = db.HyperUsers.FindOne(db.Ctx, bson.M{
		"username": username,
	}).Decode(hu)
	if err != nil {
		return err
	}

	if hu.Password == "" {
		return ErrHyperUserNotExists
	}

	return
}
