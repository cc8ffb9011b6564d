package stub

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const timeLayout = "2006-01-02T15:04:05"

// Wire models mirror the real backend's JSON, localized field names
// included, so the client exercises the exact shapes it sees in
// production.

type teamModel struct {
	ID         int64  `json:"id"`
	NomeEquipe string `json:"nomeEquipe"`
}

type userModel struct {
	ID     int64      `json:"id"`
	Nome   string     `json:"nome"`
	Login  string     `json:"login"`
	Email  string     `json:"email"`
	Perfil string     `json:"perfil"`
	Equipe *teamModel `json:"equipe,omitempty"`

	passwordHash string
}

type categoryModel struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type problemModel struct {
	ID               int64  `json:"id"`
	Nome             string `json:"nome"`
	PrioridadePadrao string `json:"prioridadePadrao"`
}

type anexoModel struct {
	ID          int64  `json:"id"`
	NomeArquivo string `json:"nomeArquivo"`
	TipoArquivo string `json:"tipoArquivo"`

	content []byte
}

type historicoModel struct {
	ID         int64  `json:"id"`
	Acao       string `json:"acao"`
	Comentario string `json:"comentario"`
	DataHora   string `json:"dataHora"`
	Author     string `json:"author"`
}

type ticketModel struct {
	ID               int64            `json:"id"`
	NumeroChamado    string           `json:"numeroChamado"`
	Descricao        string           `json:"descricao"`
	Status           string           `json:"status"`
	Prioridade       string           `json:"prioridade"`
	Categoria        *categoryModel   `json:"categoria"`
	Problema         *problemModel    `json:"problema"`
	Solicitante      *userModel       `json:"solicitante"`
	TecnicoAtribuido *userModel       `json:"tecnicoAtribuido"`
	DataAbertura     string           `json:"dataAbertura"`
	DataFechamento   *string          `json:"dataFechamento"`
	Solucao          *string          `json:"solucao"`
	Anexos           []anexoModel     `json:"anexos"`
	Historico        []historicoModel `json:"historico"`
	FoiReaberto      bool             `json:"foiReaberto"`
}

type statsModel struct {
	Abertos     int64 `json:"abertos"`
	EmAndamento int64 `json:"emAndamento"`
	Fechados    int64 `json:"fechados"`
	Total       int64 `json:"total"`
	SLAViolado  int64 `json:"slaViolado"`
}

// dataset is the in-memory fixture the stub serves from.
type dataset struct {
	mu         sync.Mutex
	users      []*userModel
	categories []*categoryModel
	problems   []*problemModel
	tickets    []*ticketModel
	nextID     int64
}

func (d *dataset) id() int64 {
	d.nextID++
	return d.nextID
}

func (d *dataset) now() string {
	return time.Now().Format(timeLayout)
}

func (d *dataset) findUser(login string) *userModel {
	for _, u := range d.users {
		if u.Login == login || u.Email == login {
			return u
		}
	}
	return nil
}

func (d *dataset) findTicket(id int64) *ticketModel {
	for _, t := range d.tickets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// seed populates a representative fixture: one account per role, the
// technician carrying the localized role literal, plus a handful of
// tickets spread across the lifecycle. Every secret is "password".
func seed(bcryptCost int) (*dataset, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		return nil, err
	}

	d := &dataset{}
	team := &teamModel{ID: d.id(), NomeEquipe: "Suporte N1"}

	admin := &userModel{ID: d.id(), Nome: "Alice Root", Login: "alice", Email: "alice@example.com", Perfil: "admin", passwordHash: string(hash)}
	manager := &userModel{ID: d.id(), Nome: "Marcos Silva", Login: "marcos", Email: "marcos@example.com", Perfil: "manager", passwordHash: string(hash)}
	tech := &userModel{ID: d.id(), Nome: "José Pereira", Login: "jose", Email: "jose@example.com", Perfil: "Técnico", Equipe: team, passwordHash: string(hash)}
	user := &userModel{ID: d.id(), Nome: "Carla Souza", Login: "carla", Email: "carla@example.com", Perfil: "user", passwordHash: string(hash)}
	d.users = []*userModel{admin, manager, tech, user}

	hardware := &categoryModel{ID: d.id(), Nome: "Hardware"}
	software := &categoryModel{ID: d.id(), Nome: "Software"}
	d.categories = []*categoryModel{hardware, software}

	printer := &problemModel{ID: d.id(), Nome: "Impressora", PrioridadePadrao: "Média"}
	outage := &problemModel{ID: d.id(), Nome: "Sistema fora do ar", PrioridadePadrao: "Crítica"}
	d.problems = []*problemModel{printer, outage}

	opened := time.Now().Add(-3 * time.Hour).Format(timeLayout)
	closedAt := time.Now().Add(-1 * time.Hour).Format(timeLayout)
	solution := "Reiniciado o serviço"

	d.tickets = []*ticketModel{
		{
			ID: d.id(), NumeroChamado: "CH-0001", Descricao: "Impressora não imprime",
			Status: "Aberto", Prioridade: "Média", Categoria: hardware, Problema: printer,
			Solicitante: user, DataAbertura: opened,
			Historico: []historicoModel{{ID: 1, Acao: "Abertura", DataHora: opened, Author: user.Nome}},
		},
		{
			ID: d.id(), NumeroChamado: "CH-0002", Descricao: "Sistema financeiro fora do ar",
			Status: "Em Andamento", Prioridade: "Crítica", Categoria: software, Problema: outage,
			Solicitante: user, TecnicoAtribuido: tech, DataAbertura: opened,
			Historico: []historicoModel{{ID: 1, Acao: "Abertura", DataHora: opened, Author: user.Nome}},
		},
		{
			ID: d.id(), NumeroChamado: "CH-0003", Descricao: "Troca de monitor",
			Status: "Resolvido", Prioridade: "Baixa", Categoria: hardware,
			Solicitante: user, TecnicoAtribuido: tech, DataAbertura: opened,
			DataFechamento: &closedAt, Solucao: &solution,
			Historico: []historicoModel{{ID: 1, Acao: "Abertura", DataHora: opened, Author: user.Nome}},
		},
	}
	d.nextID = 100

	return d, nil
}

func (d *dataset) appendHistory(t *ticketModel, action, comment, author string) {
	t.Historico = append(t.Historico, historicoModel{
		ID:         int64(len(t.Historico) + 1),
		Acao:       action,
		Comentario: comment,
		DataHora:   d.now(),
		Author:     author,
	})
}

func (d *dataset) nextTicketNumber() string {
	return fmt.Sprintf("CH-%04d", len(d.tickets)+1)
}
