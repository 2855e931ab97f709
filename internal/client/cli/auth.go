package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/client/services"
	"github.com/dmitrijs2005/getfit/internal/validation"
)

// Register asks for the signup form and creates an account. Passwords are
// checked locally, including the confirmation, before anything is sent.
func (a *App) Register(ctx context.Context, _ []string) error {
	if err := a.refuseWhenLoggedIn(); err != nil {
		return err
	}

	form, err := a.signupForm()
	if err != nil {
		return err
	}
	dob, err := a.ask.optionalDate("Date of birth")
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, form.Username, form.Email, form.Password, dob); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", form.Username)
	return nil
}

// Signup is Register plus the optional fitness profile.
func (a *App) Signup(ctx context.Context, _ []string) error {
	if err := a.refuseWhenLoggedIn(); err != nil {
		return err
	}

	form, err := a.signupForm()
	if err != nil {
		return err
	}

	req := models.RegisterFullRequest{RegisterRequest: form.Request()}
	if req.DateOfBirth, err = a.ask.optionalDate("Date of birth"); err != nil {
		return err
	}
	if req.HeightCm, err = a.ask.optionalInt("Height, cm"); err != nil {
		return err
	}
	if req.CurrentWeightKg, err = a.ask.optionalFloat("Current weight, kg"); err != nil {
		return err
	}
	if req.Gender, err = a.ask.optionalUpper("Gender: MALE, FEMALE, OTHER, PREFER_NOT_TO_SAY"); err != nil {
		return err
	}
	if req.ActivityLevel, err = a.ask.optionalUpper("Activity: SEDENTARY, LIGHTLY_ACTIVE, MODERATELY_ACTIVE, VERY_ACTIVE, EXTREMELY_ACTIVE"); err != nil {
		return err
	}
	if req.FitnessGoal, err = a.ask.optionalUpper("Fitness goal"); err != nil {
		return err
	}
	if req.TargetWeightKg, err = a.ask.optionalFloat("Target weight, kg"); err != nil {
		return err
	}
	if req.PreferredUnits, err = a.ask.optionalUpper("Units: METRIC, IMPERIAL"); err != nil {
		return err
	}

	if err := a.session.RegisterFull(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", form.Username)
	return nil
}

func (a *App) signupForm() (validation.SignupForm, error) {
	var (
		f   validation.SignupForm
		err error
	)
	if f.Username, err = a.ask.text("Username"); err != nil {
		return f, err
	}
	if f.Email, err = a.ask.text("Email"); err != nil {
		return f, err
	}
	if f.Password, err = a.ask.password("Password"); err != nil {
		return f, err
	}
	if f.ConfirmPassword, err = a.ask.password("Confirm password"); err != nil {
		return f, err
	}
	return f, validation.Signup(f)
}

func (a *App) Login(ctx context.Context, _ []string) error {
	if err := a.refuseWhenLoggedIn(); err != nil {
		return err
	}

	email, err := a.ask.text("Email")
	if err != nil {
		return err
	}
	password, err := a.ask.password("Password")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Snapshot().User.Email)
	return nil
}

// Logout never fails: server and storage errors are logged by the session.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Status(_ context.Context, _ []string) error {
	s := a.session.Snapshot()
	fmt.Fprintln(a.out, "Session:", s.State())
	if !s.IsAuthenticated {
		return nil
	}

	fmt.Fprintf(a.out, "User:    %s <%s> (id %d)\n", s.User.Username, s.User.Email, s.User.ID)
	exp, err := services.TokenExpiry(s.AccessToken)
	switch {
	case err != nil:
		fmt.Fprintln(a.out, "Token:   expiry unknown")
	case time.Now().After(exp):
		fmt.Fprintf(a.out, "Token:   expired at %s\n", exp.Local().Format(time.DateTime))
	default:
		fmt.Fprintf(a.out, "Token:   valid until %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

// refuseWhenLoggedIn keeps a second login from replacing a live session.
func (a *App) refuseWhenLoggedIn() error {
	if s := a.session.Snapshot(); s.IsAuthenticated {
		return fmt.Errorf("already logged in as %s, use 'logout' first", s.User.Email)
	}
	return nil
}
