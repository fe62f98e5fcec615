package gormstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// UserModel tabla users.
type UserModel struct {
	ID        string `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null;default:''"`
	Name      string `gorm:"not null"`
	Role      string `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) entity() *entity.User {
	return &entity.User{ID: m.ID, Identifier: m.Username, Secret: m.Password, Name: m.Name, Role: m.Role, CreatedAt: m.CreatedAt}
}

// ClientModel tabla clients.
type ClientModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"index;not null"`
	Contact   string
	Phone     string `gorm:"index"`
	Type      string `gorm:"default:'Nuevo'"`
	CreatedAt time.Time
}

func (ClientModel) TableName() string { return "clients" }

func (m ClientModel) entity() *entity.Client {
	return &entity.Client{ID: m.ID, Name: m.Name, Contact: m.Contact, Phone: m.Phone, Type: m.Type, CreatedAt: m.CreatedAt}
}

// ReportModel tabla reports.
type ReportModel struct {
	ID            string `gorm:"primaryKey"`
	Asesor        string `gorm:"index;not null"`
	AsesorID      string
	Fecha         string `gorm:"type:varchar(10);index;not null"`
	HoraInicio    string
	HoraFin       string
	Empresa       string `gorm:"not null"`
	NombreCliente string
	Contacto      string
	TipoCliente   string
	TipoActividad string
	Descripcion   string
	Observaciones string
	Monto         decimal.NullDecimal `gorm:"type:numeric"`
	Factura       string
	Cobranza      bool
	CreatedAt     time.Time `gorm:"index"`
}

func (ReportModel) TableName() string { return "reports" }

func toReportModel(r *entity.Report) ReportModel {
	return ReportModel{
		ID: r.ID, Asesor: r.Advisor, AsesorID: r.AdvisorID, Fecha: r.Date,
		HoraInicio: r.StartTime, HoraFin: r.EndTime, Empresa: r.Company,
		NombreCliente: r.ContactName, Contacto: r.ContactPhone, TipoCliente: r.ClientType,
		TipoActividad: r.Activity, Descripcion: r.Description, Observaciones: r.Observations,
		Monto: r.Amount, Factura: r.Invoice, Cobranza: r.Collected, CreatedAt: r.CreatedAt,
	}
}

func (m ReportModel) entity() *entity.Report {
	return &entity.Report{
		ID: m.ID, Advisor: m.Asesor, AdvisorID: m.AsesorID, Date: m.Fecha,
		StartTime: m.HoraInicio, EndTime: m.HoraFin, Company: m.Empresa,
		ContactName: m.NombreCliente, ContactPhone: m.Contacto, ClientType: m.TipoCliente,
		Activity: m.TipoActividad, Description: m.Descripcion, Observations: m.Observaciones,
		Amount: m.Monto, Invoice: m.Factura, Collected: m.Cobranza, CreatedAt: m.CreatedAt,
	}
}
