package stub

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

func (s *Server) handleListTickets(c *fiber.Ctx) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return c.JSON(s.data.tickets)
}

func (s *Server) handleListMyTickets(c *fiber.Ctx) error {
	principal := s.principal(c)

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	mine := make([]*ticketModel, 0)
	for _, t := range s.data.tickets {
		if t.Solicitante != nil && t.Solicitante.ID == principal.ID {
			mine = append(mine, t)
		}
	}
	return c.JSON(mine)
}

func (s *Server) handleGetTicket(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	ticket := s.data.findTicket(int64(id))
	if ticket == nil {
		return notFound(c, "ticket not found")
	}
	return c.JSON(ticket)
}

func (s *Server) handleCreateTicket(c *fiber.Ctx) error {
	principal := s.principal(c)

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "multipart form required")
	}
	values := form.Value["ticket"]
	if len(values) == 0 {
		return badRequest(c, "missing ticket part")
	}

	var payload struct {
		Descricao   string `json:"descricao"`
		IDCategoria int64  `json:"idCategoria"`
		IDProblema  int64  `json:"idProblema"`
		Prioridade  string `json:"prioridade"`
	}
	if err := json.Unmarshal([]byte(values[0]), &payload); err != nil {
		return badRequest(c, "malformed ticket part")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	var category *categoryModel
	for _, cat := range s.data.categories {
		if cat.ID == payload.IDCategoria {
			category = cat
		}
	}
	var problem *problemModel
	for _, p := range s.data.problems {
		if p.ID == payload.IDProblema {
			problem = p
		}
	}

	priority := payload.Prioridade
	if priority == "" && problem != nil {
		priority = problem.PrioridadePadrao
	}
	if priority == "" {
		priority = "Média"
	}

	ticket := &ticketModel{
		ID:            s.data.id(),
		NumeroChamado: s.data.nextTicketNumber(),
		Descricao:     payload.Descricao,
		Status:        "Aberto",
		Prioridade:    priority,
		Categoria:     category,
		Problema:      problem,
		Solicitante:   principal,
		DataAbertura:  s.data.now(),
	}
	s.data.appendHistory(ticket, "Abertura", "", principal.Nome)

	for _, header := range form.File["anexos"] {
		anexo, err := s.readUpload(header)
		if err != nil {
			return badRequest(c, "unreadable attachment")
		}
		ticket.Anexos = append(ticket.Anexos, *anexo)
	}

	s.data.tickets = append(s.data.tickets, ticket)
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func (s *Server) readUpload(header *multipart.FileHeader) (*anexoModel, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &anexoModel{
		ID:          s.data.id(),
		NomeArquivo: header.Filename,
		TipoArquivo: mimeType,
		content:     content,
	}, nil
}

var knownPriorities = map[string]struct{}{
	"Crítica": {}, "Elevada": {}, "Média": {}, "Baixa": {},
}

func (s *Server) handleClassify(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}

	var body struct {
		Category string `json:"category"`
		Priority string `json:"priority"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed classification payload")
	}
	if _, ok := knownPriorities[body.Priority]; !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "unknown priority"})
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	ticket := s.data.findTicket(int64(id))
	if ticket == nil {
		return notFound(c, "ticket not found")
	}

	var category *categoryModel
	for _, cat := range s.data.categories {
		if cat.Nome == body.Category {
			category = cat
		}
	}
	if category == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "unknown category"})
	}

	ticket.Categoria = category
	ticket.Prioridade = body.Priority
	s.data.appendHistory(ticket, "Classificação", body.Category+" / "+body.Priority, s.principal(c).Nome)
	return c.JSON(ticket)
}

func (s *Server) handleUploadAttachment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}
	header, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing file part")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	ticket := s.data.findTicket(int64(id))
	if ticket == nil {
		return notFound(c, "ticket not found")
	}

	anexo, err := s.readUpload(header)
	if err != nil {
		return badRequest(c, "unreadable attachment")
	}
	ticket.Anexos = append(ticket.Anexos, *anexo)
	s.data.appendHistory(ticket, "Anexo", header.Filename, s.principal(c).Nome)
	return c.JSON(ticket)
}

func (s *Server) handleDownloadAttachment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid attachment id")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for _, t := range s.data.tickets {
		for _, anexo := range t.Anexos {
			if anexo.ID == int64(id) {
				c.Set("Content-Type", anexo.TipoArquivo)
				return c.Send(anexo.content)
			}
		}
	}
	return notFound(c, "attachment not found")
}

func (s *Server) handleAddComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}
	var body struct {
		Comentario string `json:"comentario"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed comment payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	ticket := s.data.findTicket(int64(id))
	if ticket == nil {
		return notFound(c, "ticket not found")
	}
	s.data.appendHistory(ticket, "Comentário", body.Comentario, s.principal(c).Nome)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAssignSelf(c *fiber.Ctx) error {
	return s.assign(c, s.principal(c))
}

func (s *Server) handleAssign(c *fiber.Ctx) error {
	techID, err := c.ParamsInt("techId")
	if err != nil {
		return badRequest(c, "invalid technician id")
	}

	s.data.mu.Lock()
	var tech *userModel
	for _, u := range s.data.users {
		if u.ID == int64(techID) {
			tech = u
		}
	}
	s.data.mu.Unlock()
	if tech == nil {
		return notFound(c, "technician not found")
	}
	return s.assign(c, tech)
}

func (s *Server) assign(c *fiber.Ctx, tech *userModel) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	ticket := s.data.findTicket(int64(id))
	if ticket == nil {
		return notFound(c, "ticket not found")
	}

	ticket.TecnicoAtribuido = tech
	ticket.Status = "Em Andamento"
	s.data.appendHistory(ticket, "Atribuição", tech.Nome, s.principal(c).Nome)
	return c.JSON(ticket)
}

func (s *Server) handleClose(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}
	var body struct {
		Solucao string `json:"solucao"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed close payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	ticket := s.data.findTicket(int64(id))
	if ticket == nil {
		return notFound(c, "ticket not found")
	}

	now := s.data.now()
	ticket.Status = "Resolvido"
	ticket.DataFechamento = &now
	ticket.Solucao = &body.Solucao
	s.data.appendHistory(ticket, "Fechamento", body.Solucao, s.principal(c).Nome)
	return c.JSON(ticket)
}

func (s *Server) handleReopen(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid ticket id")
	}
	var body struct {
		Motivo string `json:"motivo"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed reopen payload")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	ticket := s.data.findTicket(int64(id))
	if ticket == nil {
		return notFound(c, "ticket not found")
	}

	ticket.Status = "Aberto"
	ticket.DataFechamento = nil
	ticket.Solucao = nil
	ticket.FoiReaberto = true
	s.data.appendHistory(ticket, "Reabertura", body.Motivo, s.principal(c).Nome)
	return c.JSON(ticket)
}

func (s *Server) handleListCategories(c *fiber.Ctx) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return c.JSON(s.data.categories)
}

func (s *Server) handleCreateCategory(c *fiber.Ctx) error {
	var body struct {
		Nome string `json:"nome"`
	}
	if err := c.BodyParser(&body); err != nil || body.Nome == "" {
		return badRequest(c, "missing category name")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	category := &categoryModel{ID: s.data.id(), Nome: body.Nome}
	s.data.categories = append(s.data.categories, category)
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (s *Server) handleUpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	var body struct {
		Nome string `json:"nome"`
	}
	if err := c.BodyParser(&body); err != nil || body.Nome == "" {
		return badRequest(c, "missing category name")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for _, cat := range s.data.categories {
		if cat.ID == int64(id) {
			cat.Nome = body.Nome
			return c.JSON(cat)
		}
	}
	return notFound(c, "category not found")
}

func (s *Server) handleDeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i, cat := range s.data.categories {
		if cat.ID == int64(id) {
			s.data.categories = append(s.data.categories[:i], s.data.categories[i+1:]...)
			return c.SendStatus(fiber.StatusNoContent)
		}
	}
	return notFound(c, "category not found")
}

func (s *Server) handleListProblems(c *fiber.Ctx) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return c.JSON(s.data.problems)
}

func (s *Server) handleCreateProblem(c *fiber.Ctx) error {
	var body struct {
		Nome             string `json:"nome"`
		PrioridadePadrao string `json:"prioridadePadrao"`
	}
	if err := c.BodyParser(&body); err != nil || body.Nome == "" {
		return badRequest(c, "missing problem name")
	}
	if _, ok := knownPriorities[body.PrioridadePadrao]; !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "unknown priority"})
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	problem := &problemModel{ID: s.data.id(), Nome: body.Nome, PrioridadePadrao: body.PrioridadePadrao}
	s.data.problems = append(s.data.problems, problem)
	return c.Status(fiber.StatusCreated).JSON(problem)
}

func (s *Server) handleUpdateProblem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid problem id")
	}
	var body struct {
		Nome             string `json:"nome"`
		PrioridadePadrao string `json:"prioridadePadrao"`
	}
	if err := c.BodyParser(&body); err != nil || body.Nome == "" {
		return badRequest(c, "missing problem name")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for _, p := range s.data.problems {
		if p.ID == int64(id) {
			p.Nome = body.Nome
			if body.PrioridadePadrao != "" {
				p.PrioridadePadrao = body.PrioridadePadrao
			}
			return c.JSON(p)
		}
	}
	return notFound(c, "problem not found")
}

func (s *Server) handleDeleteProblem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid problem id")
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i, p := range s.data.problems {
		if p.ID == int64(id) {
			s.data.problems = append(s.data.problems[:i], s.data.problems[i+1:]...)
			return c.SendStatus(fiber.StatusNoContent)
		}
	}
	return notFound(c, "problem not found")
}

func (s *Server) handleListTechnicians(c *fiber.Ctx) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	techs := make([]*userModel, 0)
	for _, u := range s.data.users {
		if domain.IsTechnicianRole(domain.Role(u.Perfil)) {
			techs = append(techs, u)
		}
	}
	return c.JSON(techs)
}

var priorityHours = map[string]time.Duration{
	"Crítica": 2 * time.Hour,
	"Elevada": 8 * time.Hour,
	"Média":   24 * time.Hour,
	"Baixa":   48 * time.Hour,
}

func (s *Server) handleDashboardStats(c *fiber.Ctx) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	teamID := int64(c.QueryInt("equipeId"))

	var stats statsModel
	now := time.Now()
	for _, t := range s.data.tickets {
		if teamID != 0 {
			if t.TecnicoAtribuido == nil || t.TecnicoAtribuido.Equipe == nil || t.TecnicoAtribuido.Equipe.ID != teamID {
				continue
			}
		}
		stats.Total++
		switch t.Status {
		case "Aberto":
			stats.Abertos++
		case "Em Andamento":
			stats.EmAndamento++
		default:
			stats.Fechados++
			continue
		}

		opened, err := time.Parse(timeLayout, t.DataAbertura)
		if err != nil {
			continue
		}
		offset, ok := priorityHours[t.Prioridade]
		if !ok {
			offset = 48 * time.Hour
		}
		if now.After(opened.Add(offset)) {
			stats.SLAViolado++
		}
	}
	return c.JSON(stats)
}
