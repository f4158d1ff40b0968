package models

// Closed enum sets for the CRM domain. Values are stored as-is in the
// database and on the wire; Valid() guards membership for input coming
// from callers. Label() returns the human-readable form used in audit
// descriptions and UI columns.

// OrderStatus is the simple order lifecycle status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// GlobalStatus is the 6-stage Kanban stage of an order, distinct from
// the item-level fine-grained status.
type GlobalStatus string

const (
	GlobalStatusNewRequest       GlobalStatus = "NEW_REQUEST"
	GlobalStatusPendingPayment   GlobalStatus = "PENDING_PAYMENT"
	GlobalStatusInProcessPartial GlobalStatus = "IN_PROCESS_PARTIAL"
	GlobalStatusInProcessPaid    GlobalStatus = "IN_PROCESS_PAID"
	GlobalStatusReadyDelivery    GlobalStatus = "READY_DELIVERY"
	GlobalStatusClosed           GlobalStatus = "CLOSED"
)

// GlobalStatuses lists all Kanban stages in board order.
var GlobalStatuses = []GlobalStatus{
	GlobalStatusNewRequest,
	GlobalStatusPendingPayment,
	GlobalStatusInProcessPartial,
	GlobalStatusInProcessPaid,
	GlobalStatusReadyDelivery,
	GlobalStatusClosed,
}

var globalStatusLabels = map[GlobalStatus]string{
	GlobalStatusNewRequest:       "New Request",
	GlobalStatusPendingPayment:   "Pending Payment",
	GlobalStatusInProcessPartial: "In Process (Partial Payment)",
	GlobalStatusInProcessPaid:    "In Process (Paid)",
	GlobalStatusReadyDelivery:    "Ready for Delivery",
	GlobalStatusClosed:           "Closed/Archived",
}

func (s GlobalStatus) Valid() bool {
	_, ok := globalStatusLabels[s]
	return ok
}

func (s GlobalStatus) Label() string {
	if l, ok := globalStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// PaymentStatus is derived from total_paid vs total_amount, never set directly
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// Currency codes accepted by the CRM
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyCUP Currency = "CUP"
)

// Currencies lists every accepted currency code.
var Currencies = []Currency{CurrencyEUR, CurrencyUSD, CurrencyCUP}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyCUP:
		return true
	}
	return false
}

// ServiceType categorizes a service item
type ServiceType string

const (
	ServiceTypeLegalization ServiceType = "LEGALIZATION"
	ServiceTypeVisa         ServiceType = "VISA"
	ServiceTypeShipping     ServiceType = "SHIPPING"
	ServiceTypeOther        ServiceType = "OTHER"
)

var serviceTypeLabels = map[ServiceType]string{
	ServiceTypeLegalization: "Legalization",
	ServiceTypeVisa:         "Visa/Appointment",
	ServiceTypeShipping:     "Shipping/Courier",
	ServiceTypeOther:        "Other",
}

func (t ServiceType) Valid() bool {
	_, ok := serviceTypeLabels[t]
	return ok
}

func (t ServiceType) Label() string {
	if l, ok := serviceTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// DocumentType identifies the document being legalized
type DocumentType string

const (
	DocCriminalRecord  DocumentType = "ANTECEDENTES_PENALES"
	DocBirth           DocumentType = "NACIMIENTO"
	DocMarriage        DocumentType = "MATRIMONIO"
	DocDivorce         DocumentType = "DIVORCIO"
	DocSingleStatus    DocumentType = "SOLTERIA"
	DocDeath           DocumentType = "DEFUNCION"
	DocMaritalStatus   DocumentType = "ESTADO_CONYUGAL"
	DocPowerOfAttorney DocumentType = "PODER_NOTARIAL"
	DocPassport        DocumentType = "PASAPORTE"
	DocAcademicTitle   DocumentType = "TITULO_ACADEMICO"
	DocStudyPlan       DocumentType = "PLAN_ESTUDIOS"
	DocAcademicRecord  DocumentType = "NOTAS"
	DocOther           DocumentType = "OTRO"
)

var documentAbbreviations = map[DocumentType]string{
	DocCriminalRecord:  "AP",
	DocBirth:           "NAC",
	DocMarriage:        "MAT",
	DocDivorce:         "DIV",
	DocSingleStatus:    "SOL",
	DocDeath:           "DEF",
	DocMaritalStatus:   "EC",
	DocPowerOfAttorney: "PN",
	DocPassport:        "PAS",
	DocAcademicTitle:   "TIT",
	DocStudyPlan:       "PE",
	DocAcademicRecord:  "NOT",
	DocOther:           "OTR",
}

// Abbreviation returns the short display code for the document type,
// "DOC" when unknown.
func (d DocumentType) Abbreviation() string {
	if a, ok := documentAbbreviations[d]; ok {
		return a
	}
	return "DOC"
}

// LegalizationType is which authorities must process the document
type LegalizationType string

const (
	LegalizationMinjus          LegalizationType = "MINJUS"
	LegalizationConsulate       LegalizationType = "CONSULADO"
	LegalizationMinjusConsulate LegalizationType = "MINJUS_CONSULADO"
)

var legalizationLabels = map[LegalizationType]string{
	LegalizationMinjus:          "MINJUS",
	LegalizationConsulate:       "Consulate",
	LegalizationMinjusConsulate: "MINJUS + Consulate",
}

func (t LegalizationType) Valid() bool {
	_, ok := legalizationLabels[t]
	return ok
}

func (t LegalizationType) Label() string {
	if l, ok := legalizationLabels[t]; ok {
		return l
	}
	return ""
}

// Destination is where the finished document must end up
type Destination string

const (
	DestinationInternational Destination = "INTERNACIONAL"
	DestinationHavana        Destination = "HABANA"
	DestinationCamaguey      Destination = "CAMAGUEY"
)

func (d Destination) Valid() bool {
	switch d {
	case DestinationInternational, DestinationHavana, DestinationCamaguey:
		return true
	}
	return false
}

// ItemStatus is the fine-grained workflow status of a service item.
// The set spans the union of all workflow paths; no transition table is
// enforced, any status may be set from any other (manual corrections
// are a normal part of operations).
type ItemStatus string

const (
	StatusInit           ItemStatus = "INIT"
	StatusPendingReceive ItemStatus = "PENDING_RECEIVE"
	StatusReceived       ItemStatus = "RECEIVED"
	StatusMinjusIn       ItemStatus = "MINJUS_IN"
	StatusMinjusOut      ItemStatus = "MINJUS_OUT"
	StatusConsulateIn    ItemStatus = "CONSULATE_IN"
	StatusConsulateOut   ItemStatus = "CONSULATE_OUT"
	StatusLegalized      ItemStatus = "LEGALIZED"
	StatusSentSpain      ItemStatus = "SENT_SPAIN"
	StatusSentClient     ItemStatus = "SENT_CLIENT"
	StatusSentCamaguey   ItemStatus = "SENT_CAMAGUEY"
	StatusReadyPickup    ItemStatus = "READY_PICKUP"
	StatusReady          ItemStatus = "READY"
	StatusDelivered      ItemStatus = "DELIVERED"
)

var itemStatusLabels = map[ItemStatus]string{
	StatusInit:           "Initiated/Requested",
	StatusPendingReceive: "Pending Document Receipt",
	StatusReceived:       "Document Received",
	StatusMinjusIn:       "MINJUS Intake",
	StatusMinjusOut:      "MINJUS Released",
	StatusConsulateIn:    "Consulate Intake",
	StatusConsulateOut:   "Consulate Released",
	StatusLegalized:      "Legalized",
	StatusSentSpain:      "Sent to Spain",
	StatusSentClient:     "Sent to Client",
	StatusSentCamaguey:   "Sent to Camaguey",
	StatusReadyPickup:    "Ready for Pickup",
	StatusReady:          "Ready for Delivery",
	StatusDelivered:      "Delivered",
}

func (s ItemStatus) Valid() bool {
	_, ok := itemStatusLabels[s]
	return ok
}

func (s ItemStatus) Label() string {
	if l, ok := itemStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal reports whether the status closes the item's workflow.
// Terminal items never count as overdue and are excluded from the queue.
func (s ItemStatus) Terminal() bool {
	return s == StatusReady || s == StatusDelivered
}

// Responsible is who currently holds the document
type Responsible string

const (
	ResponsibleOfficeCuba     Responsible = "OFICINA_CUBA"
	ResponsibleOfficeSpain    Responsible = "OFICINA_ESPANA"
	ResponsibleFieldAgent     Responsible = "GESTOR_CAMPO"
	ResponsibleInternalAgency Responsible = "AGENCIA_INTERNA"
	ResponsibleCourier        Responsible = "COURIER_EXTERNO"
	ResponsibleClient         Responsible = "CLIENTE"
)

func (r Responsible) Valid() bool {
	switch r {
	case ResponsibleOfficeCuba, ResponsibleOfficeSpain, ResponsibleFieldAgent,
		ResponsibleInternalAgency, ResponsibleCourier, ResponsibleClient:
		return true
	}
	return false
}

// LogisticsStatus is the logistics action currently happening to the document
type LogisticsStatus string

const (
	LogisticsNA            LogisticsStatus = "NA"
	LogisticsPendingPickup LogisticsStatus = "PENDING_PICKUP"
	LogisticsLocalDelivery LogisticsStatus = "LOCAL_DELIVERY"
	LogisticsInterOffice   LogisticsStatus = "INTER_OFFICE"
	LogisticsFinalShipping LogisticsStatus = "FINAL_SHIPPING"
	LogisticsReceiving     LogisticsStatus = "RECEIVING"
	LogisticsDelivered     LogisticsStatus = "DELIVERED"
)

func (s LogisticsStatus) Valid() bool {
	switch s {
	case LogisticsNA, LogisticsPendingPickup, LogisticsLocalDelivery,
		LogisticsInterOffice, LogisticsFinalShipping, LogisticsReceiving, LogisticsDelivered:
		return true
	}
	return false
}

// Location is where the document physically is
type Location string

const (
	LocationOfficeHavana Location = "OFICINA_HABANA"
	LocationOfficeSpain  Location = "OFICINA_ESPANA"
	LocationViceConsul   Location = "VICECONSULADO_CAMAGUEY"
	LocationClientHome   Location = "DOMICILIO_CLIENTE"
	LocationPartner      Location = "OFICINA_ASOCIADO"
	LocationMinjus       Location = "MINJUS"
	LocationConsulate    Location = "CONSULADO"
)

func (l Location) Valid() bool {
	switch l {
	case LocationOfficeHavana, LocationOfficeSpain, LocationViceConsul,
		LocationClientHome, LocationPartner, LocationMinjus, LocationConsulate:
		return true
	}
	return false
}

// Priority drives the SLA deadline
type Priority string

const (
	PriorityNormal  Priority = "NORMAL"
	PriorityExpress Priority = "EXPRESS"
)

func (p Priority) Valid() bool {
	return p == PriorityNormal || p == PriorityExpress
}

// PaymentMethod is how a payment was made
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodStripe   PaymentMethod = "STRIPE"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m == MethodTransfer || m == MethodStripe
}

// Account is the destination account of a payment
type Account string

const (
	AccountSpain Account = "SPAIN"
	AccountCuba  Account = "CUBA"
	AccountOther Account = "OTHER"
)

func (a Account) Valid() bool {
	return a == AccountSpain || a == AccountCuba || a == AccountOther
}

// ActionType classifies an activity log entry
type ActionType string

const (
	ActionStatusChange   ActionType = "STATUS_CHANGE"
	ActionPayment        ActionType = "PAYMENT"
	ActionEmail          ActionType = "EMAIL"
	ActionNote           ActionType = "NOTE"
	ActionAssignment     ActionType = "ASSIGNMENT"
	ActionDocumentUpload ActionType = "DOCUMENT_UPLOAD"
	ActionServiceAdded   ActionType = "SERVICE_ADDED"
)
