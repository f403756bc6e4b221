package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const RoleAdmin = "admin"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"                        json:"id"`
	Username     string `gorm:"column:nome_usuario;size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:senha_hash;size:255;not null"             json:"-"`
	Role         string `gorm:"column:papel;size:20;not null;default:user"       json:"role"`
}

func (User) TableName() string { return "usuarios" }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"                    json:"id"`
	Name        string          `gorm:"column:nome;size:200;not null"               json:"name"`
	Description *string         `gorm:"column:descricao;type:text"                  json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"column:preco;type:decimal(10,2);not null"    json:"price"`
	Image       []byte          `gorm:"column:imagem"                               json:"-"`
	ImageName   *string         `gorm:"column:imagem_nome;size:255"                 json:"-"`
	ImageMIME   *string         `gorm:"column:imagem_mime;size:100"                 json:"-"`
	ImageSize   *int64          `gorm:"column:imagem_tamanho"                       json:"-"`
	CreatedAt   time.Time       `gorm:"column:criado_em;autoCreateTime;not null"    json:"created_at"`
}

func (Product) TableName() string { return "produtos" }

type Contact struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                 json:"id"`
	Name      string    `gorm:"column:nome;size:200;not null"            json:"name"`
	Phone     string    `gorm:"column:telefone;size:40;not null"         json:"phone"`
	Email     *string   `gorm:"column:email;size:200"                    json:"email,omitempty"`
	Photo     []byte    `gorm:"column:foto"                              json:"-"`
	PhotoName *string   `gorm:"column:foto_nome;size:255"                json:"-"`
	PhotoMIME *string   `gorm:"column:foto_mime;size:100"                json:"-"`
	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime;not null" json:"created_at"`
}

func (Contact) TableName() string { return "contatos" }

type Banner struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                 json:"id"`
	Image     []byte    `gorm:"column:imagem;not null"                   json:"-"`
	ImageName string    `gorm:"column:imagem_nome;size:255;not null"     json:"-"`
	ImageMIME string    `gorm:"column:imagem_mime;size:100;not null"     json:"-"`
	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime;not null" json:"created_at"`
}

func (Banner) TableName() string { return "banners" }

// All lists every table the application owns, in migration order.
func All() []any {
	return []any{&User{}, &Product{}, &Contact{}, &Banner{}}
}
