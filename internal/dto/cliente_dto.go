package dto

type CrearClienteRequest struct {
	RucCedula   string `json:"ruc_cedula" validate:"required"`
	Nombre      string `json:"nombre"     validate:"required"`
	Direccion   string `json:"direccion"`
	Telefono    string `json:"telefono"`
	EsMayorista bool   `json:"es_mayorista"`
}

type ActualizarClienteRequest struct {
	Nombre      string  `json:"nombre"`
	Direccion   *string `json:"direccion"`
	Telefono    *string `json:"telefono"`
	EsMayorista *bool   `json:"es_mayorista"`
}

type ClienteResponse struct {
	ID          string `json:"id"`
	RucCedula   string `json:"ruc_cedula"`
	Nombre      string `json:"nombre"`
	Direccion   string `json:"direccion"`
	Telefono    string `json:"telefono"`
	EsMayorista bool   `json:"es_mayorista"`
}
