package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/getfit/internal/client/client"
	"github.com/dmitrijs2005/getfit/internal/client/config"
	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/getfit/internal/client/selection"
	"github.com/dmitrijs2005/getfit/internal/client/services"
	"github.com/dmitrijs2005/getfit/internal/client/storage"
	"github.com/dmitrijs2005/getfit/internal/common"
	"github.com/dmitrijs2005/getfit/internal/export"
	"github.com/dmitrijs2005/getfit/internal/logging"
	"golang.org/x/term"
)

// UsersAPI is implemented by *client.UsersClient.
type UsersAPI interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error)
	FitnessSummary(ctx context.Context, userID int64) (*models.FitnessSummary, error)
}

// NutritionAPI is implemented by *client.NutritionClient.
type NutritionAPI interface {
	SearchFoods(ctx context.Context, query string, limit int) (*models.FoodSearchResponse, error)
	FoodByBarcode(ctx context.Context, barcode string) (*models.BarcodeSearchResponse, error)
	FoodDetail(ctx context.Context, foodID int64) (*models.FoodDetail, error)
	TodayMeals(ctx context.Context, userID int64) (*models.MealList, error)
	MealsByDate(ctx context.Context, userID int64, date models.Date) (*models.MealList, error)
	MealsByType(ctx context.Context, userID int64, mealType models.MealType, date models.Date) (*models.MealList, error)
	WeekMeals(ctx context.Context, userID int64, start models.Date) (*models.MealList, error)
	TodaySummary(ctx context.Context, userID int64) (*models.NutritionSummary, error)
	SummaryByDate(ctx context.Context, userID int64, date models.Date) (*models.NutritionSummary, error)
	LogMeal(ctx context.Context, req models.LogMealRequest) (*models.LogMealResponse, error)
	DeleteMeal(ctx context.Context, userID, entryID int64) (*models.DeleteMealResponse, error)
}

// Deps are the collaborators of an App. Nil selectors are created with the
// wall clock; a nil Exporter disables the export command.
type Deps struct {
	Session   *services.SessionStore
	Users     UsersAPI
	Nutrition NutritionAPI
	Exporter  *services.ExportService
	Dates     *selection.DateSelector
	MealTypes *selection.MealTypeSelector
	Log       logging.Logger
	In        io.Reader
	Out       io.Writer
	// Terminal reads passwords without echo.
	Terminal bool
}

// App is the interactive getfit client.
type App struct {
	session   *services.SessionStore
	users     UsersAPI
	nutrition NutritionAPI
	exporter  *services.ExportService
	dates     *selection.DateSelector
	mealTypes *selection.MealTypeSelector
	log       logging.Logger

	reader *bufio.Reader
	out    io.Writer
	ask    *prompter

	db *sql.DB
}

var errNotLoggedIn = errors.New("you are not logged in, use 'login' or 'register'")

// errSessionExpired is returned when a request was rejected and the refresh
// token could not renew the session.
var errSessionExpired = errors.New("your session has expired, please log in again")

func New(d Deps) *App {
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	if d.Dates == nil {
		d.Dates = selection.NewDateSelector(time.Now)
	}
	if d.MealTypes == nil {
		d.MealTypes = selection.NewMealTypeSelector()
	}
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}

	reader := bufio.NewReader(d.In)
	return &App{
		session:   d.Session,
		users:     d.Users,
		nutrition: d.Nutrition,
		exporter:  d.Exporter,
		dates:     d.Dates,
		mealTypes: d.MealTypes,
		log:       d.Log,
		reader:    reader,
		out:       d.Out,
		ask:       newPrompter(reader, d.Out, d.Terminal),
	}
}

// NewApp opens local storage and builds every client from cfg.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := storage.InitDatabase(ctx, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	key, err := credentials.DeviceKey(cfg.StoragePath, cfg.StorageSecret)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	creds := credentials.NewSQLiteRepository(db, key)
	tokens := credentials.NewAccessTokenSource(creds)

	opts := []client.Option{client.WithTimeout(cfg.RequestTimeout), client.WithLogger(log)}
	authClient := client.NewAuthClient(cfg.AuthBaseURL, opts...)
	usersClient := client.NewUsersClient(cfg.AuthBaseURL, tokens, opts...)
	nutritionClient := client.NewNutritionClient(cfg.NutritionBaseURL, tokens, opts...)

	var uploader services.Uploader
	if cfg.ExportEnabled() {
		u, err := export.NewS3Uploader(ctx, export.Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		uploader = u
	}

	app := New(Deps{
		Session:   services.NewSessionStore(authClient, creds, log),
		Users:     usersClient,
		Nutrition: nutritionClient,
		Exporter:  services.NewExportService(nutritionClient, uploader, log),
		Log:       log,
		Terminal:  term.IsTerminal(int(os.Stdin.Fd())),
	})
	app.db = db
	return app, nil
}

// Run restores the stored session and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to getfit (type 'help' for commands)")

	a.session.Initialize(ctx)
	if s := a.session.Snapshot(); s.IsAuthenticated {
		fmt.Fprintf(a.out, "Logged in as %s\n", s.User.Email)
	}

	runREPL(ctx, a.reader, a.out, a.commands(), a.isLoggedIn, a.status)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated
}

// status is shown in the prompt.
func (a *App) status() string {
	s := a.session.Snapshot()
	if !s.IsAuthenticated {
		return ""
	}
	return fmt.Sprintf("(%s %s %s)", s.User.Username, a.dates.Display(), a.mealTypes.Selected().Title())
}

// withUser runs fn for the logged-in user. A request rejected with 401 is
// retried once after a token refresh; if the refresh fails the session is
// ended.
func (a *App) withUser(ctx context.Context, fn func(ctx context.Context, userID int64) error) error {
	userID, ok := a.session.UserID()
	if !ok {
		return errNotLoggedIn
	}

	err := fn(ctx, userID)
	if !errors.Is(err, common.ErrAuthenticationRequired) {
		return err
	}

	a.log.Info(ctx, "access token rejected, refreshing")
	if !a.session.RefreshAccessToken(ctx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.session.Logout(ctx)
		return errSessionExpired
	}
	return fn(ctx, userID)
}
