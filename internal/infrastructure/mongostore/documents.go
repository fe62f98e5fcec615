package mongostore

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhoicas/visitas-api/internal/domain/entity"
)

// userDoc colección users.
type userDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Password  string    `bson:"password"` // vacío = invitación pendiente
	Name      string    `bson:"name"`
	Role      string    `bson:"role"` // admin | vendor
	CreatedAt time.Time `bson:"created_at"`
}

func (d userDoc) entity() *entity.User {
	return &entity.User{ID: d.ID, Identifier: d.Username, Secret: d.Password, Name: d.Name, Role: d.Role, CreatedAt: d.CreatedAt}
}

// clientDoc colección clients.
type clientDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Contact   string    `bson:"contact"`
	Phone     string    `bson:"phone"`
	Type      string    `bson:"type"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d clientDoc) entity() *entity.Client {
	return &entity.Client{ID: d.ID, Name: d.Name, Contact: d.Contact, Phone: d.Phone, Type: d.Type, CreatedAt: d.CreatedAt}
}

// reportDoc colección reports; mismas claves que el formulario original.
type reportDoc struct {
	ID           string                `bson:"_id"`
	Advisor      string                `bson:"asesor"`
	AdvisorID    string                `bson:"asesor_id,omitempty"`
	Date         string                `bson:"fecha"`
	StartTime    string                `bson:"hora_inicio"`
	EndTime      string                `bson:"hora_fin"`
	Company      string                `bson:"empresa"`
	ContactName  string                `bson:"nombre_cliente"`
	ContactPhone string                `bson:"contacto"`
	ClientType   string                `bson:"tipo_cliente"`
	Activity     string                `bson:"tipo_actividad"`
	Description  string                `bson:"descripcion"`
	Observations string                `bson:"observaciones"`
	Amount       *primitive.Decimal128 `bson:"monto,omitempty"`
	Invoice      string                `bson:"factura"`
	Collected    bool                  `bson:"cobranza"`
	CreatedAt    time.Time             `bson:"timestamp"`
}

func toReportDoc(r *entity.Report) (reportDoc, error) {
	d := reportDoc{
		ID: r.ID, Advisor: r.Advisor, AdvisorID: r.AdvisorID, Date: r.Date,
		StartTime: r.StartTime, EndTime: r.EndTime, Company: r.Company,
		ContactName: r.ContactName, ContactPhone: r.ContactPhone, ClientType: r.ClientType,
		Activity: r.Activity, Description: r.Description, Observations: r.Observations,
		Invoice: r.Invoice, Collected: r.Collected, CreatedAt: r.CreatedAt,
	}
	if r.Amount.Valid {
		amount, err := primitive.ParseDecimal128(r.Amount.Decimal.String())
		if err != nil {
			return reportDoc{}, err
		}
		d.Amount = &amount
	}
	return d, nil
}

func (d reportDoc) entity() (*entity.Report, error) {
	r := &entity.Report{
		ID: d.ID, Advisor: d.Advisor, AdvisorID: d.AdvisorID, Date: d.Date,
		StartTime: d.StartTime, EndTime: d.EndTime, Company: d.Company,
		ContactName: d.ContactName, ContactPhone: d.ContactPhone, ClientType: d.ClientType,
		Activity: d.Activity, Description: d.Description, Observations: d.Observations,
		Invoice: d.Invoice, Collected: d.Collected, CreatedAt: d.CreatedAt,
	}
	if d.Amount != nil {
		amount, err := decimal.NewFromString(d.Amount.String())
		if err != nil {
			return nil, err
		}
		r.Amount = decimal.NewNullDecimal(amount)
	}
	return r, nil
}
