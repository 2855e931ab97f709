package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "iso", in: `"2025-01-15"`, want: NewDate(2025, time.January, 15)},
		{name: "java array", in: `[2025,1,15]`, want: NewDate(2025, time.January, 15)},
		{name: "timestamp keeps date", in: `"2025-01-15T08:30:00"`, want: NewDate(2025, time.January, 15)},
		{name: "null", in: `null`, want: Date{}},
		{name: "empty", in: `""`, want: Date{}},
		{name: "bad", in: `"15/01/2025"`, wantErr: true},
		{name: "short array", in: `[2025,1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d), "got %s", d)
		})
	}

	b, err := json.Marshal(NewDate(2024, time.February, 29))
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-02-29"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDate_AddDaysAndDateOf(t *testing.T) {
	d := NewDate(2024, time.December, 31)
	assert.Equal(t, "2025-01-01", d.AddDays(1).String())
	assert.Equal(t, "2024-12-25", d.AddDays(-6).String())

	loc := time.FixedZone("UTC+10", 10*3600)
	assert.Equal(t, "2025-03-02", DateOf(time.Date(2025, 3, 2, 1, 0, 0, 0, loc)).String())
}

func TestTimestamp_JSON(t *testing.T) {
	for _, in := range []string{
		`"2025-01-15T08:30:05"`,
		`"2025-01-15T08:30:05.123456"`,
		`"2025-01-15T08:30:05Z"`,
		`[2025,1,15,8,30,5]`,
	} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.Equal(t, 2025, ts.Year(), in)
		assert.Equal(t, 8, ts.Hour(), in)
		assert.Equal(t, 30, ts.Minute(), in)
	}

	var ts Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestParseMealType(t *testing.T) {
	for _, in := range []string{"breakfast", "LUNCH", " Dinner ", "snack", "other"} {
		m, err := ParseMealType(in)
		require.NoError(t, err, in)
		assert.True(t, m.Valid())
	}

	_, err := ParseMealType("brunch")
	require.Error(t, err)
	assert.False(t, MealType("BRUNCH").Valid())

	assert.Equal(t, "Breakfast", Breakfast.Title())
	assert.Equal(t, "Snack", Snack.Title())
}

func TestUserPatch_Apply_MergesOnlyGivenFields(t *testing.T) {
	u := User{
		ID:              7,
		Username:        "ann",
		Email:           "ann@example.com",
		HeightCm:        Ptr(170),
		CurrentWeightKg: Ptr(65.0),
		DailyCalories:   Ptr(1800),
		DailyProtein:    Ptr(90.0),
	}

	got := UserPatch{DailyCalories: Ptr(2100)}.Apply(u)

	want := u
	want.DailyCalories = Ptr(2100)
	assert.Empty(t, cmp.Diff(want, got))
	assert.Equal(t, 1800, *u.DailyCalories, "input must not be modified")

	assert.True(t, UserPatch{}.IsEmpty())
	assert.False(t, UserPatch{Username: Ptr("x")}.IsEmpty())
	assert.Equal(t, "x", UserPatch{Username: Ptr("x")}.Apply(u).Username)
}

func TestUserPatch_MarshalOmitsNil(t *testing.T) {
	b, err := json.Marshal(UserPatch{DailyCalories: Ptr(2100), DailyWater: Ptr(8.0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dailyCalories":2100,"dailyWater":8}`, string(b))
}

func TestRegisterFullRequest_FlattensBaseFields(t *testing.T) {
	dob := NewDate(1990, time.May, 4)
	req := RegisterFullRequest{
		RegisterRequest: RegisterRequest{Username: "bob", Email: "b@x.io", Password: "secret1", DateOfBirth: &dob},
		HeightCm:        Ptr(180),
		ActivityLevel:   "VERY_ACTIVE",
	}

	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"username":"bob","email":"b@x.io","password":"secret1","dateOfBirth":"1990-05-04",
		"heightCm":180,"activityLevel":"VERY_ACTIVE"
	}`, string(b))
}

func TestRecommendGoals(t *testing.T) {
	today := NewDate(2025, time.June, 1)

	t.Run("sparse profile uses defaults", func(t *testing.T) {
		p := RecommendGoals(User{}, today)
		assert.Equal(t, 2000, *p.DailyCalories)
		assert.Equal(t, 120.0, *p.DailyProtein)
		assert.Equal(t, 225.0, *p.DailyCarbs)
		assert.Equal(t, 56.0, *p.DailyFat)
		assert.Equal(t, 8.0, *p.DailyWater)
		assert.Equal(t, 3, *p.WeeklyWorkouts)
	})

	t.Run("mifflin st jeor", func(t *testing.T) {
		dob := NewDate(1995, time.January, 1)
		u := User{
			DateOfBirth:     &dob,
			HeightCm:        Ptr(180),
			CurrentWeightKg: Ptr(80.0),
			Gender:          Ptr("MALE"),
			ActivityLevel:   Ptr("MODERATELY_ACTIVE"),
		}
		// 10*80 + 6.25*180 - 5*30 + 5 = 1780; *1.55 = 2759
		p := RecommendGoals(u, today)
		assert.Equal(t, 2759, *p.DailyCalories)
		assert.Equal(t, 128.0, *p.DailyProtein)
		assert.Equal(t, 310.0, *p.DailyCarbs)
		assert.Equal(t, 77.0, *p.DailyFat)
	})

	t.Run("age counts only reached birthdays", func(t *testing.T) {
		u := User{
			DateOfBirth:     Ptr(NewDate(1995, time.June, 2)),
			HeightCm:        Ptr(180),
			CurrentWeightKg: Ptr(80.0),
			Gender:          Ptr("MALE"),
		}
		// age 29: 10*80 + 6.25*180 - 5*29 + 5 = 1785; *1.2 = 2142
		assert.Equal(t, 2142, *RecommendGoals(u, today).DailyCalories)

		// birthday today: age 30, 1780*1.2 = 2136
		assert.Equal(t, 2136, *RecommendGoals(u, NewDate(2025, time.June, 2)).DailyCalories)
	})
}

func TestDate_YearsUntil(t *testing.T) {
	dob := NewDate(2000, time.February, 29)

	assert.Equal(t, 23, dob.YearsUntil(NewDate(2024, time.February, 28)))
	assert.Equal(t, 24, dob.YearsUntil(NewDate(2024, time.February, 29)))
	assert.Equal(t, 24, dob.YearsUntil(NewDate(2025, time.February, 28)))
	assert.Equal(t, 25, dob.YearsUntil(NewDate(2025, time.March, 1)))
	assert.Equal(t, 0, dob.YearsUntil(dob))
}

func TestUser_CloneSharesNothing(t *testing.T) {
	u := User{ID: 1, Username: "alice", HeightCm: Ptr(168), DailyCalories: Ptr(1800), DateOfBirth: Ptr(NewDate(1994, time.May, 10))}

	c := u.Clone()
	*c.HeightCm = 170
	*c.DailyCalories = 2000
	*c.DateOfBirth = NewDate(2000, time.January, 1)

	assert.Equal(t, 168, *u.HeightCm)
	assert.Equal(t, 1800, *u.DailyCalories)
	assert.Equal(t, "1994-05-10", u.DateOfBirth.String())
	assert.Nil(t, c.Gender)
}

func TestMealList_DecodesEnvelopeAndBareArray(t *testing.T) {
	meal := `{
		"id": 11, "entryDate": "2025-01-15", "mealType": "LUNCH", "quantityGrams": 150,
		"loggedAt": "2025-01-15T12:01:02", "notes": "post run",
		"food": {"id": 3, "name": "Oats", "brand": "Acme"},
		"nutrition": {"calories": 570, "protein": 20, "carbs": 99, "fat": 10, "fiber": 15, "sugar": 1.5, "sodium": 3}
	}`

	var wrapped MealList
	require.NoError(t, json.Unmarshal([]byte(`{"message":"ok","date":"2025-01-15","userId":4,"mealCount":1,"meals":[`+meal+`]}`), &wrapped))
	require.Len(t, wrapped.Meals, 1)
	assert.Equal(t, int64(4), wrapped.UserID)
	assert.Equal(t, "2025-01-15", wrapped.Date.String())

	var bare MealList
	require.NoError(t, json.Unmarshal([]byte(`[`+meal+`]`), &bare))
	require.Len(t, bare.Meals, 1)

	m := bare.Meals[0]
	assert.Equal(t, Lunch, m.MealType)
	assert.Equal(t, 150.0, m.QuantityGrams)
	assert.Equal(t, "Oats", m.Food.Name)
	assert.Equal(t, 570.0, m.Nutrition.Calories)
	assert.Empty(t, cmp.Diff(wrapped.Meals, bare.Meals))

	assert.Equal(t, 570.0, bare.Totals().Calories)
}

func TestNutritionSummary_DecodesWrappedAndBare(t *testing.T) {
	body := `{"date":"2025-01-15","totalCalories":1500.5,"totalProtein":80,"totalCarbs":150,"totalFat":50,"mealBreakdown":{"breakfast":1}}`

	var wrapped NutritionSummary
	require.NoError(t, json.Unmarshal([]byte(`{"message":"Daily nutrition summary","summary":`+body+`}`), &wrapped))

	var bare NutritionSummary
	require.NoError(t, json.Unmarshal([]byte(body), &bare))

	assert.Equal(t, 1500.5, bare.TotalCalories)
	assert.Equal(t, int64(1), bare.MealBreakdown["breakfast"])
	assert.Empty(t, cmp.Diff(wrapped, bare))
}

func TestNutrition_Scaled(t *testing.T) {
	per100 := Nutrition{Calories: 380, Protein: 13, Carbs: 66, Fat: 7}
	n := per100.Scaled(50)
	assert.InDelta(t, 190, n.Calories, 1e-9)
	assert.InDelta(t, 6.5, n.Protein, 1e-9)
}
