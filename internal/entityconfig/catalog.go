package entityconfig

import "strings"

// Catalog holds the static configuration for every entity screen the admin
// client renders. Pages never mutate these: runtime option injection goes
// through WithOptions and yields a fresh value.

const emailPattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`

func indexColumn() ColumnSpec {
	return ColumnSpec{
		Header:     "#",
		Type:       TypeNumber,
		MapFrom:    RowIndex,
		HideInForm: true,
		Editable:   ReadOnly(),
	}
}

var clientsConfig = EntityConfig{
	Name:      "Clientes",
	Endpoint:  "/clients",
	IDAliases: []string{"ClientEntity_id"},
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:       "Nombre",
			BackendKey:   "name",
			Type:         TypeText,
			Required:     true,
			PossibleKeys: []string{"name", "ClientEntity_name"},
		},
		{
			Header:            "Correo",
			BackendKey:        "email",
			Type:              TypeEmail,
			Required:          true,
			Validation:        emailPattern,
			ValidationMessage: "Ingrese un correo válido",
			PossibleKeys:      []string{"email", "ClientEntity_email"},
		},
		{
			Header:            "Teléfono",
			BackendKey:        "phone",
			Type:              TypeText,
			AllowedChars:      `0-9+\- `,
			Validation:        `^[0-9+\- ]{6,20}$`,
			ValidationMessage: "Teléfono inválido",
			PossibleKeys:      []string{"phone", "ClientEntity_phone"},
		},
		{
			Header:       "Dirección",
			BackendKey:   "address",
			Type:         TypeTextarea,
			PossibleKeys: []string{"address", "ClientEntity_address"},
		},
		{
			Header:     "Activo",
			BackendKey: "active",
			Type:       TypeCheckbox,
			MapFrom:    YesNo("active"),
			Codec:      BoolCodec,
		},
	},
}

var contractsConfig = EntityConfig{
	Name:      "Contratos",
	Endpoint:  "/contracts",
	IDAliases: []string{"ContractEntity_id"},
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:       "Título",
			BackendKey:   "title",
			Type:         TypeText,
			Required:     true,
			PossibleKeys: []string{"title", "ContractEntity_title"},
		},
		{
			Header:     "Cliente",
			BackendKey: "client_id",
			Type:       TypeSelect,
			Required:   true,
			OptionsFrom: &OptionsSource{
				Entity:   "clients",
				ValueKey: "id",
				LabelKey: "name",
			},
			Codec: IntCodec,
		},
		{
			Header:     "Fecha inicio",
			BackendKey: "start_date",
			Type:       TypeDate,
			Required:   true,
			MapFrom:    ShortDate("start_date"),
			Codec:      DateCodec,
		},
		{
			Header:     "Fecha fin",
			BackendKey: "end_date",
			Type:       TypeDate,
			MapFrom:    ShortDate("end_date"),
			Codec:      DateCodec,
		},
		{
			Header:            "Monto",
			BackendKey:        "amount",
			Type:              TypeNumber,
			Required:          true,
			AllowedChars:      `0-9.`,
			Validation:        `^[0-9]+(\.[0-9]{1,2})?$`,
			ValidationMessage: "Monto inválido",
			Codec:             FloatCodec,
		},
		{
			Header:     "Estado",
			BackendKey: "status",
			Type:       TypeSelect,
			Options: []Option{
				{Value: "draft", Label: "Borrador"},
				{Value: "active", Label: "Vigente"},
				{Value: "expired", Label: "Vencido"},
				{Value: "terminated", Label: "Rescindido"},
			},
		},
		{
			Header:     "Renovación automática",
			BackendKey: "auto_renew",
			Type:       TypeCheckbox,
			MapFrom:    YesNo("auto_renew"),
			Codec:      BoolCodec,
		},
	},
}

var servicesConfig = EntityConfig{
	Name:     "Servicios",
	Endpoint: "/services",
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:       "Nombre",
			BackendKey:   "name",
			Type:         TypeText,
			Required:     true,
			PossibleKeys: []string{"name", "ServiceEntity_name"},
		},
		{
			Header:     "Descripción",
			BackendKey: "description",
			Type:       TypeTextarea,
		},
		{
			Header:            "Precio",
			BackendKey:        "price",
			Type:              TypeNumber,
			Required:          true,
			AllowedChars:      `0-9.`,
			Validation:        `^[0-9]+(\.[0-9]{1,2})?$`,
			ValidationMessage: "Precio inválido",
			Codec:             FloatCodec,
		},
		{
			Header:     "Tipo",
			BackendKey: "type",
			Type:       TypeSelect,
			Options: []Option{
				{Value: "recurring", Label: "Recurrente"},
				{Value: "one_time", Label: "Único"},
			},
		},
	},
}

var clausesConfig = EntityConfig{
	Name:     "Cláusulas",
	Endpoint: "/clauses",
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:     "Título",
			BackendKey: "title",
			Type:       TypeText,
			Required:   true,
		},
		{
			Header:     "Contrato",
			BackendKey: "contract_id",
			Type:       TypeSelect,
			Required:   true,
			OptionsFrom: &OptionsSource{
				Entity:   "contracts",
				ValueKey: "id",
				LabelKey: "title",
			},
			Codec: IntCodec,
		},
		{
			Header:     "Contenido",
			BackendKey: "content",
			Type:       TypeTextarea,
			Required:   true,
		},
		{
			Header:     "Obligatoria",
			BackendKey: "mandatory",
			Type:       TypeCheckbox,
			MapFrom:    YesNo("mandatory"),
			Codec:      BoolCodec,
		},
	},
}

var deliverablesConfig = EntityConfig{
	Name:     "Entregables",
	Endpoint: "/deliverables",
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:     "Nombre",
			BackendKey: "name",
			Type:       TypeText,
			Required:   true,
		},
		{
			Header:     "Contrato",
			BackendKey: "contract_id",
			Type:       TypeSelect,
			Required:   true,
			OptionsFrom: &OptionsSource{
				Entity:   "contracts",
				ValueKey: "id",
				LabelKey: "title",
			},
			Codec: IntCodec,
		},
		{
			Header:     "Fechas de entrega",
			BackendKey: "delivery_dates",
			Type:       TypeMultidate,
		},
		{
			Header:     "Estado",
			BackendKey: "status",
			Type:       TypeSelect,
			Options: []Option{
				{Value: "pending", Label: "Pendiente"},
				{Value: "delivered", Label: "Entregado"},
				{Value: "rejected", Label: "Rechazado"},
			},
		},
		{
			Header:      "Documento",
			BackendKey:  "document",
			Type:        TypeFile,
			HideInTable: true,
		},
	},
}

var slasConfig = EntityConfig{
	Name:     "SLAs",
	Endpoint: "/slas",
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:     "Nombre",
			BackendKey: "name",
			Type:       TypeText,
			Required:   true,
		},
		{
			Header:     "Servicio",
			BackendKey: "service_id",
			Type:       TypeSelect,
			Required:   true,
			OptionsFrom: &OptionsSource{
				Entity:   "services",
				ValueKey: "id",
				LabelKey: "name",
			},
			Codec: IntCodec,
		},
		{
			Header:     "Nivel",
			BackendKey: "level",
			Type:       TypeSelect,
			Options: []Option{
				{Value: "gold", Label: "Oro"},
				{Value: "silver", Label: "Plata"},
				{Value: "bronze", Label: "Bronce"},
			},
		},
		{
			Header:            "Tiempo de respuesta (h)",
			BackendKey:        "response_hours",
			Type:              TypeNumber,
			AllowedChars:      `0-9`,
			Validation:        `^[0-9]+$`,
			ValidationMessage: "Solo números enteros",
			Codec:             IntCodec,
		},
		{
			Header:       "Penalización (%)",
			BackendKey:   "penalty_percent",
			Type:         TypeNumber,
			AllowedChars: `0-9.`,
			Codec:        FloatCodec,
		},
	},
}

var invoicesConfig = EntityConfig{
	Name:      "Facturas",
	Endpoint:  "/invoices",
	IDAliases: []string{"InvoiceEntity_id"},
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:       "Número",
			BackendKey:   "number",
			Type:         TypeText,
			Required:     true,
			PossibleKeys: []string{"number", "InvoiceEntity_number"},
		},
		{
			Header:     "Contrato",
			BackendKey: "contract_id",
			Type:       TypeSelect,
			Required:   true,
			OptionsFrom: &OptionsSource{
				Entity:   "contracts",
				ValueKey: "id",
				LabelKey: "title",
			},
			Codec: IntCodec,
		},
		{
			Header:     "Fecha emisión",
			BackendKey: "issue_date",
			Type:       TypeDate,
			Required:   true,
			MapFrom:    ShortDate("issue_date"),
			Codec:      DateCodec,
		},
		{
			Header:            "Monto",
			BackendKey:        "amount",
			Type:              TypeNumber,
			Required:          true,
			AllowedChars:      `0-9.`,
			Validation:        `^[0-9]+(\.[0-9]{1,2})?$`,
			ValidationMessage: "Monto inválido",
			Codec:             FloatCodec,
		},
		{
			Header:     "Estado",
			BackendKey: "status",
			Type:       TypeSelect,
			Options: []Option{
				{Value: "issued", Label: "Emitida"},
				{Value: "paid", Label: "Pagada"},
				{Value: "overdue", Label: "Vencida"},
				{Value: "void", Label: "Anulada"},
			},
		},
	},
}

var notificationsConfig = EntityConfig{
	Name:     "Notificaciones",
	Endpoint: "/notifications",
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:     "Asunto",
			BackendKey: "subject",
			Type:       TypeText,
			Required:   true,
		},
		{
			Header:      "Mensaje",
			BackendKey:  "message",
			Type:        TypeTextarea,
			Required:    true,
			HideInTable: true,
		},
		{
			Header:     "Destinatarios",
			BackendKey: "recipient_ids",
			Type:       TypeCheckbox,
			Required:   true,
			OptionsFrom: &OptionsSource{
				Entity:   "users",
				ValueKey: "id",
				LabelKey: "email",
			},
		},
		{
			Header:     "Enviada",
			BackendKey: "sent",
			Type:       TypeCheckbox,
			MapFrom:    YesNo("sent"),
			Editable:   ReadOnly(),
			HideInForm: true,
		},
		{
			Header:     "Fecha",
			MapFrom:    ShortDate("created_at"),
			Type:       TypeDate,
			Editable:   ReadOnly(),
			HideInForm: true,
		},
	},
}

var suppliersConfig = EntityConfig{
	Name:      "Proveedores",
	Endpoint:  "/suppliers",
	IDAliases: []string{"SupplierEntity_id"},
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:       "Nombre",
			BackendKey:   "name",
			Type:         TypeText,
			Required:     true,
			PossibleKeys: []string{"name", "SupplierEntity_name"},
		},
		{
			Header:            "Correo",
			BackendKey:        "email",
			Type:              TypeEmail,
			Validation:        emailPattern,
			ValidationMessage: "Ingrese un correo válido",
			PossibleKeys:      []string{"email", "SupplierEntity_email"},
		},
		{
			Header:            "RUC",
			BackendKey:        "tax_id",
			Type:              TypeText,
			AllowedChars:      `0-9`,
			Validation:        `^[0-9]{8,13}$`,
			ValidationMessage: "RUC inválido",
		},
		{
			Header:       "Teléfono",
			BackendKey:   "phone",
			Type:         TypeText,
			AllowedChars: `0-9+\- `,
		},
	},
}

var usersConfig = EntityConfig{
	Name:      "Usuarios",
	Endpoint:  "/users",
	IDAliases: []string{"UserEntity_id"},
	Columns: []ColumnSpec{
		indexColumn(),
		{
			Header:       "Nombre",
			BackendKey:   "firstname",
			Type:         TypeText,
			Required:     true,
			PossibleKeys: []string{"firstname", "UserEntity_firstname"},
		},
		{
			Header:       "Apellido",
			BackendKey:   "lastname",
			Type:         TypeText,
			Required:     true,
			PossibleKeys: []string{"lastname", "UserEntity_lastname"},
		},
		{
			Header:            "Correo",
			BackendKey:        "email",
			Type:              TypeEmail,
			Required:          true,
			Validation:        emailPattern,
			ValidationMessage: "Ingrese un correo válido",
			PossibleKeys:      []string{"email", "UserEntity_email"},
		},
		{
			Header:      "Contraseña",
			BackendKey:  "password",
			Type:        TypePassword,
			Required:    true,
			HideInTable: true,
		},
		{
			Header:     "Rol",
			BackendKey: "role",
			Type:       TypeSelect,
			Required:   true,
			Options: []Option{
				{Value: "admin", Label: "Administrador"},
				{Value: "manager", Label: "Gestor"},
				{Value: "viewer", Label: "Lector"},
			},
		},
		{
			Header:     "Activo",
			BackendKey: "active",
			Type:       TypeCheckbox,
			MapFrom:    YesNo("active"),
			Codec:      BoolCodec,
		},
	},
}

var catalog = map[string]EntityConfig{
	"clients":       clientsConfig,
	"contracts":     contractsConfig,
	"services":      servicesConfig,
	"clauses":       clausesConfig,
	"deliverables":  deliverablesConfig,
	"slas":          slasConfig,
	"invoices":      invoicesConfig,
	"notifications": notificationsConfig,
	"suppliers":     suppliersConfig,
	"users":         usersConfig,
}

// Lookup returns a deep copy of the named entity's config.
func Lookup(entity string) (EntityConfig, bool) {
	cfg, ok := catalog[strings.ToLower(strings.TrimSpace(entity))]
	if !ok {
		return EntityConfig{}, false
	}
	return Clone(cfg), true
}

// Entities lists the known entity names.
func Entities() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	return out
}
