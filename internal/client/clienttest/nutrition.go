package clienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/go-chi/chi/v5"
)

type diaryEntry struct {
	userID int64
	meal   models.Meal
}

// NutritionServer fakes the nutrition service with an in-memory food
// catalogue and diary. Requests need a token minted by MintToken.
type NutritionServer struct {
	*httptest.Server

	mu             sync.Mutex
	foods          map[int64]models.FoodDetail
	entries        []diaryEntry
	nextEntryID    int64
	authorizations []string
	requestIDs     []string

	today models.Date
}

func NewNutritionServer(t testing.TB) *NutritionServer {
	t.Helper()

	s := &NutritionServer{
		foods:       make(map[int64]models.FoodDetail),
		nextEntryID: 1,
	}

	r := chi.NewRouter()
	r.Use(s.authenticate)
	r.Route("/api/foods", func(r chi.Router) {
		r.Get("/search", s.search)
		r.Get("/barcode/{barcode}", s.barcode)
		r.Get("/{id}/complete", s.foodDetail)
	})
	r.Route("/api/meals", func(r chi.Router) {
		r.Get("/today", s.mealsToday)
		r.Get("/date/{date}", s.mealsByDate)
		r.Get("/type/{type}", s.mealsByType)
		r.Get("/week", s.mealsWeek)
		r.Get("/summary/today", s.summaryToday)
		r.Get("/summary/{date}", s.summaryByDate)
		r.Post("/log", s.logMeal)
		r.Delete("/{id}", s.deleteMeal)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddFood puts a food with per-100 g nutrition into the catalogue.
func (s *NutritionServer) AddFood(f models.FoodDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.HasNutrition = f.Nutrition != nil
	s.foods[f.ID] = f
}

// SetToday pins the server's current date. The zero Date restores the clock.
func (s *NutritionServer) SetToday(d models.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = d
}

// Today returns the server's current date.
func (s *NutritionServer) Today() models.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todayLocked()
}

func (s *NutritionServer) todayLocked() models.Date {
	if s.today.IsZero() {
		return models.DateOf(time.Now())
	}
	return s.today
}

// Authorizations lists the Authorization headers received, in order.
func (s *NutritionServer) Authorizations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.authorizations)
}

func (s *NutritionServer) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requestIDs)
}

// Entries returns the number of diary entries stored for userID.
func (s *NutritionServer) Entries(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.userID == userID {
			n++
		}
	}
	return n
}

func (s *NutritionServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		s.mu.Lock()
		s.authorizations = append(s.authorizations, header)
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		s.mu.Unlock()

		tok, err := bearerToken(header)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if _, err := ParseToken(tok); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *NutritionServer) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":      "Query must be at least 2 characters",
			"suggestion": "Try a longer search term",
		})
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.foods))
	for id, f := range s.foods {
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(q)) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}

	res := models.FoodSearchResponse{Query: q, Foods: []models.FoodItem{}}
	for _, id := range ids {
		res.Foods = append(res.Foods, s.item(s.foods[id]))
	}
	res.TotalResults = len(res.Foods)
	res.LocalResults = len(res.Foods)
	writeJSON(w, http.StatusOK, res)
}

func (s *NutritionServer) item(f models.FoodDetail) models.FoodItem {
	return models.FoodItem{
		ID:               f.ID,
		Name:             f.Name,
		Brand:            f.Brand,
		Barcode:          f.Barcode,
		Nutrition:        f.Nutrition,
		HasNutrition:     f.HasNutrition,
		Source:           "local",
		AvailableOffline: true,
	}
}

func (s *NutritionServer) barcode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "barcode")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.foods {
		if f.Barcode != "" && f.Barcode == code {
			item := s.item(f)
			writeJSON(w, http.StatusOK, models.BarcodeSearchResponse{Barcode: code, Found: true, Source: "local", Food: &item})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, models.BarcodeSearchResponse{Barcode: code, Error: "Product not found"})
}

func (s *NutritionServer) foodDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid food id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.foods[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Food not found")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func userParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	return id, err == nil && id > 0
}

func dateParam(w http.ResponseWriter, raw string) (models.Date, bool) {
	d, err := models.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return models.Date{}, false
	}
	return d, true
}

// mealsLocked returns userID's meals with from <= date < to, in log order.
func (s *NutritionServer) mealsLocked(userID int64, from, to models.Date, mealType models.MealType) []models.Meal {
	out := []models.Meal{}
	for _, e := range s.entries {
		if e.userID != userID {
			continue
		}
		if e.meal.EntryDate.Before(from) || !e.meal.EntryDate.Before(to) {
			continue
		}
		if mealType != "" && e.meal.MealType != mealType {
			continue
		}
		out = append(out, e.meal)
	}
	return out
}

func (s *NutritionServer) writeDay(w http.ResponseWriter, r *http.Request, day models.Date) {
	userID, ok := userParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.MealList{
		Message: "Meals retrieved",
		Date:    day,
		UserID:  userID,
		Meals:   s.mealsLocked(userID, day, day.AddDays(1), ""),
	})
}

func (s *NutritionServer) mealsToday(w http.ResponseWriter, r *http.Request) {
	s.writeDay(w, r, s.Today())
}

func (s *NutritionServer) mealsByDate(w http.ResponseWriter, r *http.Request) {
	day, ok := dateParam(w, chi.URLParam(r, "date"))
	if !ok {
		return
	}
	s.writeDay(w, r, day)
}

func (s *NutritionServer) mealsByType(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	mt, err := models.ParseMealType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	day := s.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		if day, ok = dateParam(w, raw); !ok {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.MealList{
		Message:  "Meals retrieved",
		Date:     day,
		MealType: mt,
		UserID:   userID,
		Meals:    s.mealsLocked(userID, day, day.AddDays(1), mt),
	})
}

func (s *NutritionServer) mealsWeek(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	start := s.Today().AddDays(-7)
	if raw := r.URL.Query().Get("startDate"); raw != "" {
		if start, ok = dateParam(w, raw); !ok {
			return
		}
	}
	end := start.AddDays(7)

	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.MealList{
		Message:   "Weekly meals retrieved",
		StartDate: start,
		EndDate:   end.AddDays(-1),
		UserID:    userID,
		Meals:     s.mealsLocked(userID, start, end, ""),
	})
}

func (s *NutritionServer) writeSummary(w http.ResponseWriter, r *http.Request, day models.Date) {
	userID, ok := userParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := models.MealList{Meals: s.mealsLocked(userID, day, day.AddDays(1), "")}
	tot := list.Totals()
	breakdown := map[string]int64{}
	for _, m := range list.Meals {
		breakdown[string(m.MealType)]++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Nutrition summary retrieved",
		"summary": models.NutritionSummary{
			Date:          day,
			UserID:        userID,
			TotalCalories: tot.Calories,
			TotalProtein:  tot.Protein,
			TotalCarbs:    tot.Carbs,
			TotalFat:      tot.Fat,
			TotalFiber:    tot.Fiber,
			TotalSugar:    tot.Sugar,
			TotalSodium:   tot.Sodium,
			MealBreakdown: breakdown,
		},
	})
}

func (s *NutritionServer) summaryToday(w http.ResponseWriter, r *http.Request) {
	s.writeSummary(w, r, s.Today())
}

func (s *NutritionServer) summaryByDate(w http.ResponseWriter, r *http.Request) {
	day, ok := dateParam(w, chi.URLParam(r, "date"))
	if !ok {
		return
	}
	s.writeSummary(w, r, day)
}

func (s *NutritionServer) logMeal(w http.ResponseWriter, r *http.Request) {
	var req models.LogMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 || req.FoodID <= 0 || req.QuantityGrams <= 0 || !req.MealType.Valid() {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	food, ok := s.foods[req.FoodID]
	if !ok {
		writeError(w, http.StatusNotFound, "Food not found")
		return
	}

	day := s.todayLocked()
	if req.Date != nil && !req.Date.IsZero() {
		day = *req.Date
	}
	var n models.Nutrition
	if food.Nutrition != nil {
		n = food.Nutrition.Scaled(req.QuantityGrams)
	}

	meal := models.Meal{
		ID:            s.nextEntryID,
		EntryDate:     day,
		MealType:      req.MealType,
		QuantityGrams: req.QuantityGrams,
		LoggedAt:      models.Timestamp{Time: time.Now().UTC().Truncate(time.Second)},
		Notes:         req.Notes,
		Food:          models.MealFood{ID: food.ID, Name: food.Name, Brand: food.Brand},
		Nutrition:     n,
	}
	s.nextEntryID++
	s.entries = append(s.entries, diaryEntry{userID: req.UserID, meal: meal})

	writeJSON(w, http.StatusCreated, models.LogMealResponse{
		Message: "Meal logged successfully",
		Entry: models.LoggedEntry{
			ID:            meal.ID,
			UserID:        req.UserID,
			FoodID:        food.ID,
			EntryDate:     meal.EntryDate,
			MealType:      meal.MealType,
			QuantityGrams: meal.QuantityGrams,
			Notes:         meal.Notes,
			LoggedAt:      meal.LoggedAt,
			Nutrition:     n,
		},
	})
}

func (s *NutritionServer) deleteMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.entries, func(e diaryEntry) bool {
		return e.userID == userID && e.meal.ID == id
	})
	if i < 0 {
		writeError(w, http.StatusNotFound, "Meal entry not found")
		return
	}
	s.entries = slices.Delete(s.entries, i, i+1)
	writeJSON(w, http.StatusOK, models.DeleteMealResponse{Message: "Meal entry deleted successfully", EntryID: id})
}
