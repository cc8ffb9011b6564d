package transport

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// FetchCategories lists all ticket categories.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	var wires []wireCategory
	resp, err := c.http.R().SetContext(ctx).SetResult(&wires).Get("/api/categorias")
	if err := c.evaluate(resp, err, "categories"); err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(wires))
	for i := range wires {
		categories = append(categories, *mapCategory(&wires[i]))
	}
	return categories, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, name string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"nome": name}).
		Post("/api/categorias")
	return c.evaluate(resp, err, "category")
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, name string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"nome": name}).
		Put(fmt.Sprintf("/api/categorias/%d", id))
	return c.evaluate(resp, err, "category")
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	resp, err := c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/api/categorias/%d", id))
	return c.evaluate(resp, err, "category")
}

// FetchProblems lists all problem types.
func (c *Client) FetchProblems(ctx context.Context) ([]domain.ProblemType, error) {
	var wires []wireProblem
	resp, err := c.http.R().SetContext(ctx).SetResult(&wires).Get("/api/problemas")
	if err := c.evaluate(resp, err, "problem types"); err != nil {
		return nil, err
	}
	problems := make([]domain.ProblemType, 0, len(wires))
	for i := range wires {
		problems = append(problems, *mapProblem(&wires[i]))
	}
	return problems, nil
}

// CreateProblem adds a problem type with its default priority.
func (c *Client) CreateProblem(ctx context.Context, name string, defaultPriority domain.TicketPriority) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"nome": name, "prioridadePadrao": priorityToWire(defaultPriority)}).
		Post("/api/problemas")
	return c.evaluate(resp, err, "problem type")
}

// UpdateProblem updates a problem type.
func (c *Client) UpdateProblem(ctx context.Context, id int64, name string, defaultPriority domain.TicketPriority) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"nome": name, "prioridadePadrao": priorityToWire(defaultPriority)}).
		Put(fmt.Sprintf("/api/problemas/%d", id))
	return c.evaluate(resp, err, "problem type")
}

// DeleteProblem removes a problem type.
func (c *Client) DeleteProblem(ctx context.Context, id int64) error {
	resp, err := c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/api/problemas/%d", id))
	return c.evaluate(resp, err, "problem type")
}

// FetchTechnicians lists the analysts tickets can be assigned to.
func (c *Client) FetchTechnicians(ctx context.Context) ([]domain.User, error) {
	var wires []wireUser
	resp, err := c.http.R().SetContext(ctx).SetResult(&wires).Get("/api/users/technicians")
	if err := c.evaluate(resp, err, "technicians"); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(wires))
	for i := range wires {
		users = append(users, *mapUser(&wires[i]))
	}
	return users, nil
}

// FetchDashboardStats retrieves aggregate counters, optionally scoped to
// one team.
func (c *Client) FetchDashboardStats(ctx context.Context, teamID *int64) (domain.DashboardStats, error) {
	req := c.http.R().SetContext(ctx)
	if teamID != nil {
		req.SetQueryParam("equipeId", strconv.FormatInt(*teamID, 10))
	}

	var wire wireStats
	resp, err := req.SetResult(&wire).Get("/api/dashboard/stats")
	if err := c.evaluate(resp, err, "dashboard stats"); err != nil {
		return domain.DashboardStats{}, err
	}
	return domain.DashboardStats{
		Open:        wire.Abertos,
		InProgress:  wire.EmAndamento,
		Closed:      wire.Fechados,
		Total:       wire.Total,
		SLAViolated: wire.SLAViolado,
	}, nil
}
