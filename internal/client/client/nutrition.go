package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/validation"
)

// DefaultSearchLimit is used by callers that do not pick a limit.
const DefaultSearchLimit = 10

// NutritionClient wraps the nutrition service. Every call reads the access
// token from the TokenSource, so a token refreshed elsewhere is picked up on
// the next call. A 401 is returned as AuthenticationRequired and never
// triggers a refresh.
type NutritionClient struct {
	t      *transport
	tokens TokenSource
}

func NewNutritionClient(baseURL string, tokens TokenSource, opts ...Option) *NutritionClient {
	return &NutritionClient{t: newTransport("nutrition", baseURL, opts...), tokens: tokens}
}

func (c *NutritionClient) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	tok, err := bearer(ctx, c.tokens)
	if err != nil {
		return err
	}
	return c.t.do(ctx, request{method: method, path: path, query: query, body: body, token: tok, authRequired: true}, out)
}

func userQuery(userID int64) url.Values {
	return url.Values{"userId": {strconv.FormatInt(userID, 10)}}
}

// SearchFoods searches local and remote food databases. Results keep the
// server's order.
func (c *NutritionClient) SearchFoods(ctx context.Context, query string, limit int) (*models.FoodSearchResponse, error) {
	query = strings.TrimSpace(query)
	if err := validation.Search(query, limit); err != nil {
		return nil, err
	}

	q := url.Values{"q": {query}, "limit": {strconv.Itoa(limit)}}
	var res models.FoodSearchResponse
	if err := c.call(ctx, http.MethodGet, "/api/foods/search", q, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *NutritionClient) FoodByBarcode(ctx context.Context, barcode string) (*models.BarcodeSearchResponse, error) {
	var res models.BarcodeSearchResponse
	path := "/api/foods/barcode/" + url.PathEscape(strings.TrimSpace(barcode))
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FoodDetail returns the food with its per-100 g nutrition.
func (c *NutritionClient) FoodDetail(ctx context.Context, foodID int64) (*models.FoodDetail, error) {
	var res models.FoodDetail
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/foods/%d/complete", foodID), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *NutritionClient) TodayMeals(ctx context.Context, userID int64) (*models.MealList, error) {
	return c.meals(ctx, "/api/meals/today", userQuery(userID))
}

func (c *NutritionClient) MealsByDate(ctx context.Context, userID int64, date models.Date) (*models.MealList, error) {
	return c.meals(ctx, "/api/meals/date/"+date.String(), userQuery(userID))
}

// MealsByType lists meals of one type. A zero date means today on the server.
func (c *NutritionClient) MealsByType(ctx context.Context, userID int64, mealType models.MealType, date models.Date) (*models.MealList, error) {
	q := userQuery(userID)
	if !date.IsZero() {
		q.Set("date", date.String())
	}
	return c.meals(ctx, "/api/meals/type/"+url.PathEscape(string(mealType)), q)
}

// WeekMeals lists seven days of meals starting at start. A zero start means
// the server default, seven days ago.
func (c *NutritionClient) WeekMeals(ctx context.Context, userID int64, start models.Date) (*models.MealList, error) {
	q := userQuery(userID)
	if !start.IsZero() {
		q.Set("startDate", start.String())
	}
	return c.meals(ctx, "/api/meals/week", q)
}

func (c *NutritionClient) meals(ctx context.Context, path string, q url.Values) (*models.MealList, error) {
	var res models.MealList
	if err := c.call(ctx, http.MethodGet, path, q, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *NutritionClient) TodaySummary(ctx context.Context, userID int64) (*models.NutritionSummary, error) {
	return c.summary(ctx, "/api/meals/summary/today", userID)
}

func (c *NutritionClient) SummaryByDate(ctx context.Context, userID int64, date models.Date) (*models.NutritionSummary, error) {
	return c.summary(ctx, "/api/meals/summary/"+date.String(), userID)
}

func (c *NutritionClient) summary(ctx context.Context, path string, userID int64) (*models.NutritionSummary, error) {
	var res models.NutritionSummary
	if err := c.call(ctx, http.MethodGet, path, userQuery(userID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LogMeal records a diary entry and returns it with the nutrition computed
// for the logged quantity.
func (c *NutritionClient) LogMeal(ctx context.Context, req models.LogMealRequest) (*models.LogMealResponse, error) {
	if err := validation.LogMeal(req); err != nil {
		return nil, err
	}

	var res models.LogMealResponse
	if err := c.call(ctx, http.MethodPost, "/api/meals/log", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *NutritionClient) DeleteMeal(ctx context.Context, userID, entryID int64) (*models.DeleteMealResponse, error) {
	var res models.DeleteMealResponse
	path := fmt.Sprintf("/api/meals/%d", entryID)
	if err := c.call(ctx, http.MethodDelete, path, userQuery(userID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
