package api

// Wire types for the club management API. The backend exposes Turkish field
// names (kulup/uye/etkinlik/gorev/aidat); the JSON tags preserve the wire
// format while the Go names stay descriptive. The API has no schema
// versioning, so every field is optional and zero values are acceptable.

type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"adSoyad"`
	Email    string `json:"email"`
	Role     string `json:"rol,omitempty"`
}

type Club struct {
	ID          int64        `json:"id"`
	Name        string       `json:"ad"`
	Description string       `json:"aciklama"`
	Active      bool         `json:"aktif,omitempty"`
	Members     []Membership `json:"uyeler,omitempty"`
}

// MemberCount is derived client-side; the list endpoint inlines members
// instead of a count.
func (c Club) MemberCount() int {
	return len(c.Members)
}

type Membership struct {
	ID        int64  `json:"id"`
	Position  string `json:"pozisyon"`
	StudentNo string `json:"ogrenciNo,omitempty"`
	Phone     string `json:"telefon,omitempty"`
	JoinedAt  string `json:"kayitTarihi,omitempty"`
	User      *User  `json:"user,omitempty"`
	Club      *Club  `json:"kulup,omitempty"`
}

const (
	PositionMember    = "Uye"
	PositionPresident = "Baskan"
	PositionManager   = "Yonetici"
)

type EventStatus string

const (
	EventStatusActive    EventStatus = "AKTIF"
	EventStatusPlanned   EventStatus = "PLANLANDI"
	EventStatusCompleted EventStatus = "TAMAMLANDI"
)

type Event struct {
	ID          int64       `json:"id"`
	Title       string      `json:"baslik"`
	Description string      `json:"aciklama"`
	Date        string      `json:"tarih"`
	Time        string      `json:"saat"`
	Location    string      `json:"konum"`
	Status      EventStatus `json:"durum"`
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "BEKLEMEDE"
	TaskStatusInProgress TaskStatus = "DEVAM_EDIYOR"
	TaskStatusDone       TaskStatus = "TAMAMLANDI"
)

// NormalizeTaskStatus maps the legacy "BEKLIYOR" spelling some records still
// carry onto the pending status and defaults unknown values to pending.
func NormalizeTaskStatus(s string) TaskStatus {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return TaskStatus(s)
	case "BEKLIYOR":
		return TaskStatusPending
	default:
		return TaskStatusPending
	}
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"baslik"`
	Description string     `json:"aciklama"`
	DueDate     string     `json:"sonTarih"`
	Status      TaskStatus `json:"durum"`

	// AssigneeName is filled client-side when tasks are aggregated across a
	// club's members; the per-member endpoint does not repeat the owner.
	AssigneeName string `json:"-"`
}

type Due struct {
	ID       int64   `json:"id"`
	Amount   float64 `json:"tutar"`
	Period   string  `json:"donem"`
	Paid     bool    `json:"odendi"`
	PaidDate string  `json:"odemeTarihi,omitempty"`

	// MemberName is filled client-side during aggregation, like
	// Task.AssigneeName.
	MemberName string `json:"-"`
}

type ClubStats struct {
	TotalMembers    int     `json:"toplamUye"`
	TotalEvents     int     `json:"toplamEtkinlik"`
	PaidDues        float64 `json:"odenenAidat"`
	OutstandingDues float64 `json:"bekleyenAidat"`
	PendingTasks    int     `json:"bekleyenGorev"`
}

type LoginResponse struct {
	UserID            int64  `json:"userId"`
	Email             string `json:"email"`
	FullName          string `json:"adSoyad"`
	Role              string `json:"rol"`
	Token             string `json:"token"`
	PresidentClubID   *int64 `json:"baskanKulupId"`
	PresidentClubName string `json:"baskanKulupAd"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

// PresidentClub is the answer of GET /api/user/{id}/baskan-kulup. When
// IsPresident is false the remaining fields are absent.
type PresidentClub struct {
	IsPresident     bool   `json:"baskan"`
	ClubID          int64  `json:"kulupId"`
	ClubName        string `json:"kulupAd"`
	ClubDescription string `json:"kulupAciklama"`
	Active          bool   `json:"aktif"`
}

type Profile struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	FullName        string `json:"adSoyad"`
	Role            string `json:"rol"`
	MembershipCount int    `json:"uyelikSayisi"`
	TaskCount       int    `json:"gorevSayisi"`
	EventCount      int    `json:"etkinlikSayisi"`
}

// MutationResponse is the common 2xx body of create/update/delete calls.
type MutationResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
