package transport

type StudentRequest struct {
	Fullname         string  `json:"fullname"         validate:"required"`
	Nom              *string `json:"nom"`
	Prenom           *string `json:"prenom"`
	Email            string  `json:"email"            validate:"required,email"`
	Age              *int    `json:"age"              validate:"required,gte=0"`
	Matricule        string  `json:"matricule"        validate:"required"`
	DateNaissance    *string `json:"dateNaissance"    validate:"omitempty,datetime=2006-01-02"`
	Telephone        *string `json:"telephone"`
	Adresse          *string `json:"adresse"`
	Filiere          *string `json:"filiere"`
	Niveau           *string `json:"niveau"`
	AnneeInscription *int    `json:"anneeInscription"`
	Photo            *string `json:"photo"`
	Statut           string  `json:"statut"           validate:"omitempty,oneof=ACTIF SUSPENDU DIPLOME"`
}

type ProfileRequest struct {
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telephone *string `json:"telephone"`
	Adresse   *string `json:"adresse"`
}

type HistoryRequest struct {
	Annee   *int    `json:"annee"`
	Details *string `json:"details"`
}
