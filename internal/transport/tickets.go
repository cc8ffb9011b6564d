package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// FileUpload carries one attachment for a multipart request.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// CreateTicketInput is the payload for opening a new ticket.
type CreateTicketInput struct {
	Description string
	CategoryID  int64
	ProblemID   int64
	Priority    domain.TicketPriority
	Files       []FileUpload
}

// FetchTickets retrieves the full ticket collection (staff scope).
func (c *Client) FetchTickets(ctx context.Context) ([]domain.Ticket, error) {
	var wires []wireTicket
	resp, err := c.http.R().SetContext(ctx).SetResult(&wires).Get("/api/tickets")
	if err := c.evaluate(resp, err, "tickets"); err != nil {
		return nil, err
	}
	return mapTickets(wires), nil
}

// FetchMyTickets retrieves the caller-scoped ticket collection.
func (c *Client) FetchMyTickets(ctx context.Context) ([]domain.Ticket, error) {
	var wires []wireTicket
	resp, err := c.http.R().SetContext(ctx).SetResult(&wires).Get("/api/tickets/me")
	if err := c.evaluate(resp, err, "tickets"); err != nil {
		return nil, err
	}
	return mapTickets(wires), nil
}

// FetchTicket retrieves a single ticket by ID.
func (c *Client) FetchTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	var wire wireTicket
	resp, err := c.http.R().SetContext(ctx).SetResult(&wire).Get(fmt.Sprintf("/api/tickets/%d", id))
	if err := c.evaluate(resp, err, "ticket"); err != nil {
		return nil, err
	}
	ticket := mapTicket(wire)
	return &ticket, nil
}

// CreateTicket submits the multipart creation payload: one JSON part with
// the structured fields plus zero or more attachment parts.
func (c *Client) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	payload, err := json.Marshal(map[string]any{
		"descricao":   input.Description,
		"idCategoria": input.CategoryID,
		"idProblema":  input.ProblemID,
		"prioridade":  priorityToWire(input.Priority),
	})
	if err != nil {
		return nil, err
	}

	req := c.http.R().
		SetContext(ctx).
		SetMultipartField("ticket", "", "application/json", strings.NewReader(string(payload)))
	for _, file := range input.Files {
		req.SetMultipartField("anexos", file.Name, "application/octet-stream", file.Content)
	}

	var wire wireTicket
	resp, err := req.SetResult(&wire).Post("/api/tickets")
	if err := c.evaluate(resp, err, "ticket"); err != nil {
		return nil, err
	}
	ticket := mapTicket(wire)
	return &ticket, nil
}

// UpdateClassification sets category and priority on a ticket.
func (c *Client) UpdateClassification(ctx context.Context, id int64, category string, priority domain.TicketPriority) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"category": category, "priority": priorityToWire(priority)}).
		Put(fmt.Sprintf("/api/tickets/%d/classification", id))
	return c.evaluate(resp, err, "ticket")
}

// UploadAttachment attaches one file to a ticket and returns the server's
// updated view of the ticket.
func (c *Client) UploadAttachment(ctx context.Context, ticketID int64, file FileUpload) (*domain.Ticket, error) {
	var wire wireTicket
	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", file.Name, "application/octet-stream", file.Content).
		SetResult(&wire).
		Post(fmt.Sprintf("/api/tickets/%d/attachments", ticketID))
	if err := c.evaluate(resp, err, "ticket"); err != nil {
		return nil, err
	}
	ticket := mapTicket(wire)
	return &ticket, nil
}

// DownloadAttachment fetches attachment content. The MIME type is echoed
// from the response metadata.
func (c *Client) DownloadAttachment(ctx context.Context, id int64) ([]byte, string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/api/anexos/%d", id))
	if err := c.evaluate(resp, err, "attachment"); err != nil {
		return nil, "", err
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

// AddComment appends a comment to the ticket's history.
func (c *Client) AddComment(ctx context.Context, ticketID int64, comment string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"comentario": comment}).
		Post(fmt.Sprintf("/api/tickets/%d/comments", ticketID))
	return c.evaluate(resp, err, "ticket")
}

// AssignSelf claims the ticket for the calling technician.
func (c *Client) AssignSelf(ctx context.Context, ticketID int64) error {
	resp, err := c.http.R().SetContext(ctx).Post(fmt.Sprintf("/api/tickets/%d/assign-self", ticketID))
	return c.evaluate(resp, err, "ticket")
}

// AssignTo assigns the ticket to the given technician.
func (c *Client) AssignTo(ctx context.Context, ticketID, technicianID int64) error {
	resp, err := c.http.R().SetContext(ctx).Post(fmt.Sprintf("/api/tickets/%d/assign/%d", ticketID, technicianID))
	return c.evaluate(resp, err, "ticket")
}

// Close resolves the ticket with a solution text.
func (c *Client) Close(ctx context.Context, ticketID int64, solution string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"solucao": solution}).
		Post(fmt.Sprintf("/api/tickets/%d/close", ticketID))
	return c.evaluate(resp, err, "ticket")
}

// Reopen reverts a closed ticket with a reason.
func (c *Client) Reopen(ctx context.Context, ticketID int64, reason string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"motivo": reason}).
		Post(fmt.Sprintf("/api/tickets/%d/reopen", ticketID))
	return c.evaluate(resp, err, "ticket")
}
