//go:build integration_test || all_tests

package apitest

import (
	"fmt"
	"net/http"
)

type idResponse struct {
	ID int `json:"id"`
}

type planResponse struct {
	ID               int    `json:"id"`
	User             int    `json:"user"`
	Title            string `json:"title"`
	Frequency        int    `json:"frequency"`
	SessionDuration  int    `json:"session_duration"`
	WorkoutExercises []struct {
		ID          int `json:"id"`
		Exercise    int `json:"exercise"`
		Sets        int `json:"sets"`
		Repetitions int `json:"repetitions"`
	} `json:"workout_exercises"`
}

type progressResponse struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	Weight string `json:"weight"`
}

func (s *APITestSuite) TestWorkoutPlan_WithNestedExercise() {
	sessionAuth, bearerAuth := s.registerAndLogin("user@example.com", "pass123")

	resp := s.do(http.MethodPost, "/api/muscle-groups", sessionAuth, map[string]any{
		"name":        "Chest",
		"description": "Pectoral muscles",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	var chest idResponse
	resp.decode(s.T(), &chest)

	resp = s.do(http.MethodPost, "/api/exercises", bearerAuth, map[string]any{
		"name":           "Bench Press",
		"description":    "Flat bench barbell press",
		"instructions":   "Lower the bar to the chest, press up",
		"target_muscles": []int{chest.ID},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	var benchPress idResponse
	resp.decode(s.T(), &benchPress)

	resp = s.do(http.MethodPost, "/api/workout-plans", sessionAuth, map[string]any{
		"title":            "Plan A",
		"frequency":        3,
		"session_duration": 60,
		"create_workout_exercises": []map[string]any{
			{"exercise": benchPress.ID, "sets": 3, "repetitions": 10},
		},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	var created planResponse
	resp.decode(s.T(), &created)

	resp = s.do(http.MethodGet, fmt.Sprintf("/api/workout-plans/%d", created.ID), bearerAuth, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	var plan planResponse
	resp.decode(s.T(), &plan)

	s.Equal("Plan A", plan.Title)
	s.Equal(3, plan.Frequency)
	s.Equal(60, plan.SessionDuration)
	s.Require().Len(plan.WorkoutExercises, 1)
	s.Equal(benchPress.ID, plan.WorkoutExercises[0].Exercise)
	s.Equal(3, plan.WorkoutExercises[0].Sets)
	s.Equal(10, plan.WorkoutExercises[0].Repetitions)

	var childRows int
	s.Require().NoError(s.DB.QueryRow(
		`SELECT count(*) FROM workout_exercise WHERE workout_plan_id = $1`, created.ID,
	).Scan(&childRows))
	s.Equal(1, childRows)
}

func (s *APITestSuite) TestProgress_DuplicateDate() {
	sessionAuth, _ := s.registerAndLogin("user@example.com", "pass123")

	entry := map[string]any{"date": "2024-01-01", "weight": "80"}

	resp := s.do(http.MethodPost, "/api/fitness-progress", sessionAuth, entry)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	var created progressResponse
	resp.decode(s.T(), &created)
	s.Equal("2024-01-01", created.Date)
	s.Equal("80.00", created.Weight)

	resp = s.do(http.MethodPost, "/api/fitness-progress", sessionAuth, entry)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"non_field_errors":["The fields user, date must make a unique set."]}`, string(resp.Body))

	var rows int
	s.Require().NoError(s.DB.QueryRow(
		`SELECT count(*) FROM progress_entry WHERE date = '2024-01-01'`,
	).Scan(&rows))
	s.Equal(1, rows)

	// another account has its own ledger
	otherAuth, _ := s.registerAndLogin("other@example.com", "pass123")
	resp = s.do(http.MethodPost, "/api/fitness-progress", otherAuth, entry)
	s.Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
}

func (s *APITestSuite) TestUnauthenticated() {
	for _, path := range []string{"/api/workout-plans", "/api/workout-exercises", "/api/fitness-progress", "/api/user/me"} {
		resp := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusForbidden, resp.StatusCode, path)
		s.JSONEq(`{"detail":"Authentication credentials were not provided."}`, string(resp.Body), path)
	}

	resp := s.do(http.MethodGet, "/api/workout-plans", "Token not-a-session", nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.JSONEq(`{"detail":"Invalid token."}`, string(resp.Body))

	// the catalog is readable without credentials
	resp = s.do(http.MethodGet, "/api/muscle-groups", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *APITestSuite) TestCrossOwnerIsolation() {
	ownerAuth, _ := s.registerAndLogin("owner@example.com", "pass123")
	intruderAuth, _ := s.registerAndLogin("intruder@example.com", "pass123")

	resp := s.do(http.MethodPost, "/api/workout-plans", ownerAuth, map[string]any{
		"title":            "Owner plan",
		"frequency":        2,
		"session_duration": 45,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	var plan idResponse
	resp.decode(s.T(), &plan)

	resp = s.do(http.MethodPost, "/api/fitness-progress", ownerAuth, map[string]any{
		"date":   "2024-02-01",
		"weight": "75.5",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(resp.Body))
	var entry idResponse
	resp.decode(s.T(), &entry)

	planPath := fmt.Sprintf("/api/workout-plans/%d", plan.ID)
	entryPath := fmt.Sprintf("/api/fitness-progress/%d", entry.ID)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, planPath, intruderAuth, nil).StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodPatch, planPath, intruderAuth, map[string]any{"title": "mine"}).StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, planPath, intruderAuth, nil).StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, entryPath, intruderAuth, nil).StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, entryPath, intruderAuth, nil).StatusCode)

	resp = s.do(http.MethodGet, "/api/workout-plans", intruderAuth, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`[]`, string(resp.Body))

	// still there for the owner
	resp = s.do(http.MethodGet, planPath, ownerAuth, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp = s.do(http.MethodGet, entryPath, ownerAuth, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *APITestSuite) TestAccount_Lifecycle() {
	sessionAuth, bearerAuth := s.registerAndLogin("Someone@EXAMPLE.com", "pass123")

	resp := s.do(http.MethodGet, "/api/user/me", bearerAuth, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(resp.Body))
	var me struct {
		Email string `json:"email"`
	}
	resp.decode(s.T(), &me)
	s.Equal("Someone@example.com", me.Email)

	resp = s.do(http.MethodPost, "/api/user/token", "", map[string]string{
		"email":    "Someone@example.com",
		"password": "wrong-pass",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/user/logout", sessionAuth, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/user/me", sessionAuth, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodDelete, "/api/user/me", bearerAuth, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/user/me", bearerAuth, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}
