package models

// Columns of the ticket table. Names match the warehouse schema exactly.
const (
	ColID           = "ID"
	ColIdentifier   = "Identifier"
	ColCustomer     = "Nick_del_Cliente"
	ColStatus       = "Estado"
	ColChannel      = "Canal"
	ColSentiment    = "Sentimiento_Inicial"
	ColDepartment   = "Departamento"
	ColCompany      = "Empresa"
	ColTypification = "Tipificacion"
	ColSLA          = "Abordado_en_SLA"
	ColEscalated    = "Escalado"
	ColMessages     = "Mensajes"
	ColSent         = "Mensajes_Enviados"
	ColReceived     = "Mensajes_Recibidos"
	ColFirstMessage = "Primer_Mensaje"
	ColStartDate    = "Fecha_de_inicio"
	ColStartTime    = "Hora_de_inicio"
)

type Field struct {
	Name        string
	Type        string
	Description string
}

// TicketFields is the schema hint handed to the SQL generator.
var TicketFields = []Field{
	{ColID, "INT64", "numeric ticket id"},
	{ColIdentifier, "STRING", "human readable ticket code"},
	{ColCustomer, "STRING", "customer nickname"},
	{ColStatus, "STRING", "ticket status (abierto, cerrado, en proceso...)"},
	{ColChannel, "STRING", "contact channel (whatsapp, email, facebook...)"},
	{ColSentiment, "STRING", "initial sentiment (positivo, neutro, negativo)"},
	{ColDepartment, "STRING", "department handling the ticket"},
	{ColCompany, "STRING", "customer company"},
	{ColTypification, "STRING", "ticket typification / reason"},
	{ColSLA, "BOOL", "whether the ticket was first addressed within SLA"},
	{ColEscalated, "BOOL", "whether the ticket was escalated"},
	{ColMessages, "INT64", "total messages"},
	{ColSent, "INT64", "messages sent by agents"},
	{ColReceived, "INT64", "messages received from the customer"},
	{ColFirstMessage, "STRING", "first customer message"},
	{ColStartDate, "DATE", "ticket start date"},
	{ColStartTime, "TIME", "ticket start time"},
}
