package hyperusers

import (
	"encoding/json"
	"errors"
	"mantisbeanstalk/internal/errmsg"
	"mantisbeanstalk/internal/events"
	"mantisbeanstalk/internal/models"
	"mantisbeanstalk/internal/utils"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// lookupHyperUser is swapped in tests.
var lookupHyperUser = func(username string) (models.HyperUser, error) {
	hu := models.HyperUser{}
	err := hu.Get(username)
	return hu, err
}

// loginHandler exchanges hyperuser credentials for a bearer token.
// @Summary Hyperuser login
// @Tags Hyperusers Auth
// @Accept json
// @Produce json
// @Param payload body models.HyperUser true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errmsg._HyperUserInvalidPayload
// @Failure 401 {object} errmsg._HyperUserWrongPassword
// @Failure 404 {object} errmsg._HyperUserNotExists
// @Router /mantis/hyperusers/login [post]
func loginHandler(c fiber.Ctx) error {
	var body models.HyperUser
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.HyperUserInvalidPayload)
	}

	body.Username = strings.TrimSpace(body.Username)
	body.Password = strings.TrimSpace(body.Password)
	if body.Username == "" || body.Password == "" {
		return utils.StatusError(c, errmsg.HyperUserInvalidPayload)
	}

	hu, err := lookupHyperUser(body.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, models.ErrHyperUserNotExists) {
			return utils.StatusError(c, errmsg.HyperUserNotExists)
		}
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if bcrypt.CompareHashAndPassword(
		[]byte(hu.Password),
		[]byte(body.Password),
	) != nil {
		return utils.StatusError(c, errmsg.HyperUserWrongPassword)
	}

	token := hu.GenToken()

	events.Em.HyperUserLogin(hu.Username)

	hu.Password = ""

	return c.JSON(bson.M{
		"token":     token,
		"hyperuser": hu,
	})
}
