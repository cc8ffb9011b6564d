package transport

import (
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/sla"
)

// Wire shapes mirror the backend's JSON, where fields can appear under a
// localized name, an English alias, or both. Mapping into domain entities
// is total: every shape the server is known to emit produces a canonical
// entity, and unrecognized enum literals degrade to the unknown value.

type wireTeam struct {
	ID         int64  `json:"id"`
	NomeEquipe string `json:"nomeEquipe"`
	Nome       string `json:"nome"`
}

type wireUser struct {
	ID     int64     `json:"id"`
	Nome   string    `json:"nome"`
	Name   string    `json:"name"`
	Login  string    `json:"login"`
	Email  string    `json:"email"`
	Perfil string    `json:"perfil"`
	Role   string    `json:"role"`
	Equipe *wireTeam `json:"equipe"`
}

type wireCategory struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
	Name string `json:"name"`
}

type wireProblem struct {
	ID               int64  `json:"id"`
	Nome             string `json:"nome"`
	Name             string `json:"name"`
	PrioridadePadrao string `json:"prioridadePadrao"`
	DefaultPriority  string `json:"defaultPriority"`
}

type wireAnexo struct {
	ID          int64  `json:"id"`
	NomeArquivo string `json:"nomeArquivo"`
	FileName    string `json:"fileName"`
	TipoArquivo string `json:"tipoArquivo"`
	MimeType    string `json:"mimeType"`
}

type wireHistorico struct {
	ID         int64           `json:"id"`
	Acao       string          `json:"acao"`
	Action     string          `json:"action"`
	Comentario string          `json:"comentario"`
	Comment    string          `json:"comment"`
	DataHora   string          `json:"dataHora"`
	Date       string          `json:"date"`
	Usuario    json.RawMessage `json:"usuario"`
	Author     string          `json:"author"`
}

type wireTicket struct {
	ID               int64           `json:"id"`
	NumeroChamado    string          `json:"numeroChamado"`
	Descricao        string          `json:"descricao"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	Prioridade       string          `json:"prioridade"`
	Priority         string          `json:"priority"`
	Categoria        *wireCategory   `json:"categoria"`
	Problema         *wireProblem    `json:"problema"`
	Solicitante      json.RawMessage `json:"solicitante"`
	TecnicoAtribuido *wireUser       `json:"tecnicoAtribuido"`
	DataAbertura     string          `json:"dataAbertura"`
	OpenedAt         string          `json:"openedAt"`
	DataFechamento   string          `json:"dataFechamento"`
	ClosedAt         string          `json:"closedAt"`
	Solucao          string          `json:"solucao"`
	Solution         string          `json:"solution"`
	Anexos           []wireAnexo     `json:"anexos"`
	Historico        []wireHistorico `json:"historico"`
	History          []wireHistorico `json:"history"`
	FoiReaberto      bool            `json:"foiReaberto"`
}

type wireStats struct {
	Abertos     int64 `json:"abertos"`
	EmAndamento int64 `json:"emAndamento"`
	Fechados    int64 `json:"fechados"`
	Total       int64 `json:"total"`
	SLAViolado  int64 `json:"slaViolado"`
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// statusFromWire maps server status literals, localized or English, to
// the canonical enum. Unrecognized literals map to the unknown status.
func statusFromWire(s string) domain.TicketStatus {
	switch domain.Normalize(s) {
	case "aberto", "open":
		return domain.TicketStatusOpen
	case "em andamento", "in progress", "in_progress":
		return domain.TicketStatusInProgress
	case "resolvido", "resolved":
		return domain.TicketStatusResolved
	case "fechado", "closed":
		return domain.TicketStatusClosed
	case "encerrado", "ended":
		return domain.TicketStatusEnded
	case "cancelado", "cancelled", "canceled":
		return domain.TicketStatusCancelled
	}
	return domain.TicketStatusUnknown
}

func priorityFromWire(s string) domain.TicketPriority {
	switch domain.Normalize(s) {
	case "critica", "critical":
		return domain.TicketPriorityCritical
	case "elevada", "alta", "high":
		return domain.TicketPriorityHigh
	case "media", "medium":
		return domain.TicketPriorityMedium
	case "baixa", "low":
		return domain.TicketPriorityLow
	}
	return ""
}

// priorityToWire renders the localized literal the backend expects.
func priorityToWire(p domain.TicketPriority) string {
	switch p {
	case domain.TicketPriorityCritical:
		return "Crítica"
	case domain.TicketPriorityHigh:
		return "Elevada"
	case domain.TicketPriorityMedium:
		return "Média"
	case domain.TicketPriorityLow:
		return "Baixa"
	}
	return string(p)
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// timeFromWire tolerates both zoned timestamps and the zone-less form the
// backend's LocalDateTime serialization produces.
func timeFromWire(s string) time.Time {
	for _, layout := range wireTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func mapTeam(w *wireTeam) *domain.Team {
	if w == nil {
		return nil
	}
	return &domain.Team{ID: w.ID, Name: firstNonEmpty(w.NomeEquipe, w.Nome)}
}

func mapUser(w *wireUser) *domain.User {
	if w == nil {
		return nil
	}
	return &domain.User{
		ID:    w.ID,
		Login: w.Login,
		Name:  firstNonEmpty(w.Nome, w.Name),
		Email: w.Email,
		Role:  domain.Role(firstNonEmpty(w.Perfil, w.Role)),
		Team:  mapTeam(w.Equipe),
	}
}

// mapActor resolves a field the server serializes either as a user object
// or as a bare display string.
func mapActor(raw json.RawMessage) *domain.User {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var u wireUser
	if err := json.Unmarshal(raw, &u); err == nil && (u.Login != "" || u.Nome != "" || u.Name != "" || u.ID != 0) {
		return mapUser(&u)
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil && name != "" {
		return &domain.User{Name: name}
	}
	return nil
}

func mapCategory(w *wireCategory) *domain.Category {
	if w == nil {
		return nil
	}
	return &domain.Category{ID: w.ID, Name: firstNonEmpty(w.Nome, w.Name)}
}

func mapProblem(w *wireProblem) *domain.ProblemType {
	if w == nil {
		return nil
	}
	return &domain.ProblemType{
		ID:              w.ID,
		Name:            firstNonEmpty(w.Nome, w.Name),
		DefaultPriority: priorityFromWire(firstNonEmpty(w.PrioridadePadrao, w.DefaultPriority)),
	}
}

func mapAttachment(w wireAnexo) domain.Attachment {
	return domain.Attachment{
		ID:       w.ID,
		FileName: firstNonEmpty(w.NomeArquivo, w.FileName),
		MimeType: firstNonEmpty(w.TipoArquivo, w.MimeType),
	}
}

func mapHistory(entries []wireHistorico) []domain.HistoryEntry {
	if len(entries) == 0 {
		return nil
	}
	mapped := make([]domain.HistoryEntry, 0, len(entries))
	for _, w := range entries {
		actor := w.Author
		if actor == "" {
			if user := mapActor(w.Usuario); user != nil {
				actor = user.Name
			}
		}
		mapped = append(mapped, domain.HistoryEntry{
			ID:        w.ID,
			Actor:     actor,
			Action:    firstNonEmpty(w.Acao, w.Action),
			Comment:   firstNonEmpty(w.Comentario, w.Comment),
			Timestamp: timeFromWire(firstNonEmpty(w.DataHora, w.Date)),
		})
	}
	return mapped
}

func mapTicket(w wireTicket) domain.Ticket {
	openedAt := timeFromWire(firstNonEmpty(w.DataAbertura, w.OpenedAt))
	priority := priorityFromWire(firstNonEmpty(w.Prioridade, w.Priority))

	var closedAt *time.Time
	if raw := firstNonEmpty(w.DataFechamento, w.ClosedAt); raw != "" {
		if t := timeFromWire(raw); !t.IsZero() {
			closedAt = &t
		}
	}

	var solution *string
	if s := firstNonEmpty(w.Solucao, w.Solution); s != "" {
		solution = &s
	}

	history := mapHistory(w.Historico)
	if history == nil {
		history = mapHistory(w.History)
	}

	attachments := make([]domain.Attachment, 0, len(w.Anexos))
	for _, a := range w.Anexos {
		attachments = append(attachments, mapAttachment(a))
	}

	return domain.Ticket{
		ID:          w.ID,
		Number:      w.NumeroChamado,
		Description: firstNonEmpty(w.Descricao, w.Description),
		Category:    mapCategory(w.Categoria),
		Problem:     mapProblem(w.Problema),
		Priority:    priority,
		Status:      statusFromWire(w.Status),
		Requester:   mapActor(w.Solicitante),
		Assignee:    mapUser(w.TecnicoAtribuido),
		OpenedAt:    openedAt,
		ClosedAt:    closedAt,
		Solution:    solution,
		Attachments: attachments,
		History:     history,
		Reopened:    w.FoiReaberto,
		SLADeadline: sla.ComputeDeadline(openedAt, priority),
	}
}

func mapTickets(wires []wireTicket) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(wires))
	for _, w := range wires {
		tickets = append(tickets, mapTicket(w))
	}
	return tickets
}

func unmarshalBody(resp *resty.Response, out any) error {
	return json.Unmarshal(resp.Body(), out)
}
