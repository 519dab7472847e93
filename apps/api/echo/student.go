package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/risk"
	"github.com/anvesha/backend/core/student"
)

type studentApi struct {
	svc      student.ServiceInterface
	perfSvc  performance.ServiceInterface
	riskSvc  risk.ServiceInterface
	auth     *jwtAuth
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *jwtAuth, deps ServerDeps) {
	api := studentApi{
		svc:      deps.StudentSvc,
		perfSvc:  deps.PerfSvc,
		riskSvc:  deps.RiskSvc,
		auth:     auth,
		validate: deps.Validate,
	}

	sg := g.Group("/students")

	// un-authed endpoints
	// TODO: rate limit `/password-reset` & `/password-reset-confirm`
	sg.POST("/register", api.register)
	sg.POST("/login", api.login)
	sg.POST("/password-reset", api.resetPassword)
	sg.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)

	// detail endpoints, token owner only
	dg := ag.Group("/:id", ownStudentMiddleware(auth))
	dg.GET("/profile", api.retrieveProfile)
	dg.PUT("/profile", api.updateProfile)
	dg.GET("/dashboard", api.dashboard)
	dg.GET("/risk", api.predictRisk)

	registerPerformanceAPI(dg, deps)
}

// Handlers

func (api *studentApi) register(ctx echo.Context) error {
	var data student.RegisterInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}

	token, err := api.auth.generateToken(api.auth.claims(std))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, RegisterResponse{Token: token, Student: std})
}

func (api *studentApi) login(ctx echo.Context) error {
	var data student.LoginInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating student")
	}

	token, err := api.auth.generateToken(api.auth.claims(std))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, StudentID: std.ID.Hex()})
}

func (api *studentApi) resetPassword(ctx echo.Context) error {
	var data student.PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == student.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *studentApi) confirmPasswordReset(ctx echo.Context) error {
	var data student.ResetPasswordInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPasswordInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api *studentApi) refreshToken(ctx echo.Context) error {
	claims, err := api.auth.getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return errUnauthorized
	}
	std, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(api.auth.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return errRefreshExpired
	}

	token, err := api.auth.generateToken(api.auth.claims(std, claims.OrigIssuedAt))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, StudentID: std.ID.Hex()})
}

func (api *studentApi) retrieveProfile(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	std, prof, err := api.svc.GetProfile(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, newProfileResponse(std, prof))
}

func (api *studentApi) updateProfile(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateProfileInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfileInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, prof, err := api.svc.UpdateProfile(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, newProfileResponse(std, prof))
}

// dashboard aggregates the per-student views the frontend landing page needs:
// rebuilt analytics, the activity log and the current risk fields.
func (api *studentApi) dashboard(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}

	std, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	perf, activities, err := api.perfSvc.Rebuild(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "rebuilding performance")
	}

	return ctx.JSON(http.StatusOK, DashboardResponse{
		Name:             std.Name,
		ProfileCompleted: std.ProfileCompleted,
		Performance:      perf,
		Activities:       activities,
	})
}

func (api *studentApi) predictRisk(ctx echo.Context) error {
	id, err := contextStudentID(ctx)
	if err != nil {
		return err
	}
	pred, err := api.riskSvc.PredictRisk(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pred)
}

type (
	RegisterResponse struct {
		Token   string          `json:"token"`
		Student student.Student `json:"student"`
	}

	LoginResponse struct {
		Token     string `json:"token"`
		StudentID string `json:"studentId"`
	}

	ProfileResponse struct {
		student.Student
		Age      int `json:"age"`
		Standard int `json:"standard"`
	}

	DashboardResponse struct {
		Name             string                  `json:"name"`
		ProfileCompleted bool                    `json:"profileCompleted"`
		Performance      performance.Performance `json:"performance"`
		Activities       []performance.Activity  `json:"activities"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func newProfileResponse(std student.Student, prof student.Profile) ProfileResponse {
	return ProfileResponse{Student: std, Age: prof.Age, Standard: prof.Standard}
}
