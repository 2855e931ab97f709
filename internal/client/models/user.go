package models

import (
	"math"
)

// User is the profile projection returned by the auth service. Optional
// attributes are pointers so "unknown" and zero stay distinct.
type User struct {
	ID              int64    `json:"id"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	DateOfBirth     *Date    `json:"dateOfBirth,omitempty"`
	HeightCm        *int     `json:"heightCm,omitempty"`
	CurrentWeightKg *float64 `json:"currentWeightKg,omitempty"`
	Gender          *string  `json:"gender,omitempty"`
	ActivityLevel   *string  `json:"activityLevel,omitempty"`
	FitnessGoal     *string  `json:"fitnessGoal,omitempty"`
	TargetWeightKg  *float64 `json:"targetWeightKg,omitempty"`
	PreferredUnits  *string  `json:"preferredUnits,omitempty"`
	Timezone        *string  `json:"timezone,omitempty"`
	Age             *int     `json:"age,omitempty"`
	BMI             *float64 `json:"bmi,omitempty"`
	DailyCalories   *int     `json:"dailyCalories,omitempty"`
	DailyProtein    *float64 `json:"dailyProtein,omitempty"`
	DailyCarbs      *float64 `json:"dailyCarbs,omitempty"`
	DailyFat        *float64 `json:"dailyFat,omitempty"`
	DailyWater      *float64 `json:"dailyWater,omitempty"`
	WeeklyWorkouts  *int     `json:"weeklyWorkouts,omitempty"`
}

// UserPatch is a partial User. Nil fields are left alone by Apply and are
// omitted when the patch is sent as a profile update.
type UserPatch struct {
	Username        *string  `json:"username,omitempty"`
	Email           *string  `json:"email,omitempty"`
	DateOfBirth     *Date    `json:"dateOfBirth,omitempty"`
	HeightCm        *int     `json:"heightCm,omitempty"`
	CurrentWeightKg *float64 `json:"currentWeightKg,omitempty"`
	Gender          *string  `json:"gender,omitempty"`
	ActivityLevel   *string  `json:"activityLevel,omitempty"`
	FitnessGoal     *string  `json:"fitnessGoal,omitempty"`
	TargetWeightKg  *float64 `json:"targetWeightKg,omitempty"`
	PreferredUnits  *string  `json:"preferredUnits,omitempty"`
	Timezone        *string  `json:"timezone,omitempty"`
	DailyCalories   *int     `json:"dailyCalories,omitempty"`
	DailyProtein    *float64 `json:"dailyProtein,omitempty"`
	DailyCarbs      *float64 `json:"dailyCarbs,omitempty"`
	DailyFat        *float64 `json:"dailyFat,omitempty"`
	DailyWater      *float64 `json:"dailyWater,omitempty"`
	WeeklyWorkouts  *int     `json:"weeklyWorkouts,omitempty"`
}

// Apply returns u with every non-nil field of p copied over it.
func (p UserPatch) Apply(u User) User {
	setPtr(&u.DateOfBirth, p.DateOfBirth)
	setPtr(&u.HeightCm, p.HeightCm)
	setPtr(&u.CurrentWeightKg, p.CurrentWeightKg)
	setPtr(&u.Gender, p.Gender)
	setPtr(&u.ActivityLevel, p.ActivityLevel)
	setPtr(&u.FitnessGoal, p.FitnessGoal)
	setPtr(&u.TargetWeightKg, p.TargetWeightKg)
	setPtr(&u.PreferredUnits, p.PreferredUnits)
	setPtr(&u.Timezone, p.Timezone)
	setPtr(&u.DailyCalories, p.DailyCalories)
	setPtr(&u.DailyProtein, p.DailyProtein)
	setPtr(&u.DailyCarbs, p.DailyCarbs)
	setPtr(&u.DailyFat, p.DailyFat)
	setPtr(&u.DailyWater, p.DailyWater)
	setPtr(&u.WeeklyWorkouts, p.WeeklyWorkouts)
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p == UserPatch{}
}

func setPtr[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

// Clone returns a copy of u that shares no pointers with it.
func (u User) Clone() User {
	c := u
	c.DateOfBirth = clonePtr(u.DateOfBirth)
	c.HeightCm = clonePtr(u.HeightCm)
	c.CurrentWeightKg = clonePtr(u.CurrentWeightKg)
	c.Gender = clonePtr(u.Gender)
	c.ActivityLevel = clonePtr(u.ActivityLevel)
	c.FitnessGoal = clonePtr(u.FitnessGoal)
	c.TargetWeightKg = clonePtr(u.TargetWeightKg)
	c.PreferredUnits = clonePtr(u.PreferredUnits)
	c.Timezone = clonePtr(u.Timezone)
	c.Age = clonePtr(u.Age)
	c.BMI = clonePtr(u.BMI)
	c.DailyCalories = clonePtr(u.DailyCalories)
	c.DailyProtein = clonePtr(u.DailyProtein)
	c.DailyCarbs = clonePtr(u.DailyCarbs)
	c.DailyFat = clonePtr(u.DailyFat)
	c.DailyWater = clonePtr(u.DailyWater)
	c.WeeklyWorkouts = clonePtr(u.WeeklyWorkouts)
	return c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// AuthResult is the success body of login and both register endpoints.
type AuthResult struct {
	Message      string `json:"message"`
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type RefreshResult struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DateOfBirth *Date  `json:"dateOfBirth,omitempty"`
}

// RegisterFullRequest is a RegisterRequest plus the optional profile attributes
// accepted by /api/auth/register/full.
type RegisterFullRequest struct {
	RegisterRequest
	HeightCm        *int     `json:"heightCm,omitempty" validate:"omitempty,gt=0"`
	CurrentWeightKg *float64 `json:"currentWeightKg,omitempty" validate:"omitempty,gt=0"`
	Gender          string   `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER PREFER_NOT_TO_SAY"`
	ActivityLevel   string   `json:"activityLevel,omitempty" validate:"omitempty,oneof=SEDENTARY LIGHTLY_ACTIVE MODERATELY_ACTIVE VERY_ACTIVE EXTREMELY_ACTIVE"`
	FitnessGoal     string   `json:"fitnessGoal,omitempty"`
	TargetWeightKg  *float64 `json:"targetWeightKg,omitempty" validate:"omitempty,gt=0"`
	PreferredUnits  string   `json:"preferredUnits,omitempty" validate:"omitempty,oneof=METRIC IMPERIAL"`
}

// UserResponse wraps the user for GET and PUT /api/users/{id}.
type UserResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type FitnessSummary struct {
	UserID           int64    `json:"userId"`
	Name             string   `json:"name"`
	Age              *int     `json:"age"`
	BMI              *float64 `json:"bmi"`
	CurrentWeight    *float64 `json:"currentWeight"`
	TargetWeight     *float64 `json:"targetWeight"`
	WeightDifference *float64 `json:"weightDifference"`
	BMICategory      string   `json:"bmiCategory"`
	FitnessGoal      string   `json:"fitnessGoal"`
	ActivityLevel    string   `json:"activityLevel"`
	DailyCalories    *int     `json:"dailyCalories"`
	DailyProtein     *float64 `json:"dailyProtein"`
	DailyCarbs       *float64 `json:"dailyCarbs"`
	DailyFat         *float64 `json:"dailyFat"`
	DailyWater       *float64 `json:"dailyWater"`
	WeeklyWorkouts   *int     `json:"weeklyWorkouts"`
}

var activityMultipliers = map[string]float64{
	"SEDENTARY":         1.2,
	"LIGHTLY_ACTIVE":    1.375,
	"MODERATELY_ACTIVE": 1.55,
	"VERY_ACTIVE":       1.725,
	"EXTREMELY_ACTIVE":  1.9,
}

// Default daily targets used when the profile is too sparse to compute them.
const (
	DefaultDailyCalories  = 2000
	DefaultDailyProtein   = 120
	DefaultDailyWater     = 8
	DefaultWeeklyWorkouts = 3
)

// RecommendGoals suggests daily targets for u using the Mifflin-St Jeor BMR
// scaled by activity level. Carbs get 45% and fat 25% of the calories;
// protein is 1.6 g per kg of body weight.
func RecommendGoals(u User, today Date) UserPatch {
	calories := DefaultDailyCalories
	if u.CurrentWeightKg != nil && u.HeightCm != nil && u.DateOfBirth != nil {
		age := float64(u.DateOfBirth.YearsUntil(today))
		bmr := 10*(*u.CurrentWeightKg) + 6.25*float64(*u.HeightCm) - 5*age
		if u.Gender != nil && *u.Gender == "MALE" {
			bmr += 5
		} else {
			bmr -= 161
		}

		mult := 1.2
		if u.ActivityLevel != nil {
			if m, ok := activityMultipliers[*u.ActivityLevel]; ok {
				mult = m
			}
		}
		calories = int(math.Round(bmr * mult))
	}

	protein := float64(DefaultDailyProtein)
	if u.CurrentWeightKg != nil {
		protein = math.Round(*u.CurrentWeightKg * 1.6)
	}

	return UserPatch{
		DailyCalories:  Ptr(calories),
		DailyProtein:   Ptr(protein),
		DailyCarbs:     Ptr(math.Round(float64(calories) * 0.45 / 4)),
		DailyFat:       Ptr(math.Round(float64(calories) * 0.25 / 9)),
		DailyWater:     Ptr(float64(DefaultDailyWater)),
		WeeklyWorkouts: Ptr(DefaultWeeklyWorkouts),
	}
}
