package localstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// document es la forma serializada del blob: las tres colecciones completas.
type document struct {
	Users   []userDoc   `json:"users"`
	Clients []clientDoc `json:"clients"`
	Reports []reportDoc `json:"reports"`
}

type userDoc struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type clientDoc struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type reportDoc struct {
	ID            string              `json:"id"`
	Asesor        string              `json:"asesor"`
	AsesorID      string              `json:"asesor_id"`
	Fecha         string              `json:"fecha"`
	HoraInicio    string              `json:"hora_inicio"`
	HoraFin       string              `json:"hora_fin"`
	Empresa       string              `json:"empresa"`
	NombreCliente string              `json:"nombre_cliente"`
	Contacto      string              `json:"contacto"`
	TipoCliente   string              `json:"tipo_cliente"`
	TipoActividad string              `json:"tipo_actividad"`
	Descripcion   string              `json:"descripcion"`
	Observaciones string              `json:"observaciones"`
	Monto         decimal.NullDecimal `json:"monto"`
	Factura       string              `json:"factura"`
	Cobranza      bool                `json:"cobranza"`
	Timestamp     time.Time           `json:"timestamp"`
}

func toUserDoc(u *entity.User) userDoc {
	return userDoc{ID: u.ID, Username: u.Identifier, Password: u.Secret, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (d userDoc) entity() *entity.User {
	return &entity.User{ID: d.ID, Identifier: d.Username, Secret: d.Password, Name: d.Name, Role: d.Role, CreatedAt: d.CreatedAt}
}

func toClientDoc(c *entity.Client) clientDoc {
	return clientDoc{ID: c.ID, Name: c.Name, Contact: c.Contact, Phone: c.Phone, Type: c.Type, CreatedAt: c.CreatedAt}
}

func (d clientDoc) entity() *entity.Client {
	return &entity.Client{ID: d.ID, Name: d.Name, Contact: d.Contact, Phone: d.Phone, Type: d.Type, CreatedAt: d.CreatedAt}
}

func toReportDoc(r *entity.Report) reportDoc {
	return reportDoc{
		ID:            r.ID,
		Asesor:        r.Advisor,
		AsesorID:      r.AdvisorID,
		Fecha:         r.Date,
		HoraInicio:    r.StartTime,
		HoraFin:       r.EndTime,
		Empresa:       r.Company,
		NombreCliente: r.ContactName,
		Contacto:      r.ContactPhone,
		TipoCliente:   r.ClientType,
		TipoActividad: r.Activity,
		Descripcion:   r.Description,
		Observaciones: r.Observations,
		Monto:         r.Amount,
		Factura:       r.Invoice,
		Cobranza:      r.Collected,
		Timestamp:     r.CreatedAt,
	}
}

func (d reportDoc) entity() *entity.Report {
	return &entity.Report{
		ID:           d.ID,
		Advisor:      d.Asesor,
		AdvisorID:    d.AsesorID,
		Date:         d.Fecha,
		StartTime:    d.HoraInicio,
		EndTime:      d.HoraFin,
		Company:      d.Empresa,
		ContactName:  d.NombreCliente,
		ContactPhone: d.Contacto,
		ClientType:   d.TipoCliente,
		Activity:     d.TipoActividad,
		Description:  d.Descripcion,
		Observations: d.Observaciones,
		Amount:       d.Monto,
		Invoice:      d.Factura,
		Collected:    d.Cobranza,
		CreatedAt:    d.Timestamp,
	}
}
