// Package types defines the errors and data models shared by the TorBox client.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Response is the envelope every TorBox API endpoint wraps its result in.
type Response[T any] struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// DownloadState values reported by the service.
const (
	StateQueued = "queued"
)

// TorrentFile is a file within a torrent.
type TorrentFile struct {
	ID           int    `json:"id"`
	MD5          string `json:"md5"`
	Hash         string `json:"hash"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	S3Path       string `json:"s3_path"`
	MimeType     string `json:"mimetype"`
	ShortName    string `json:"short_name"`
	AbsolutePath string `json:"absolute_path"`
}

// TorrentInfo is a torrent in the user's list.
type TorrentInfo struct {
	ID               int           `json:"id"`
	AuthID           string        `json:"auth_id"`
	Server           int           `json:"server"`
	Hash             string        `json:"hash"`
	Name             string        `json:"name"`
	Magnet           string        `json:"magnet"`
	Size             int64         `json:"size"`
	Active           bool          `json:"active"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	DownloadState    string        `json:"download_state"`
	Seeds            int           `json:"seeds"`
	Peers            int           `json:"peers"`
	Ratio            float64       `json:"ratio"`
	Progress         float64       `json:"progress"`
	DownloadSpeed    int64         `json:"download_speed"`
	UploadSpeed      int64         `json:"upload_speed"`
	ETA              int64         `json:"eta"`
	TorrentFile      bool          `json:"torrent_file"`
	ExpiresAt        *time.Time    `json:"expires_at,omitempty"`
	DownloadPresent  bool          `json:"download_present"`
	Files            []TorrentFile `json:"files"`
	DownloadPath     string        `json:"download_path"`
	InactiveCheck    int           `json:"inactive_check"`
	Availability     float64       `json:"availability"`
	DownloadFinished bool          `json:"download_finished"`
	Tracker          string        `json:"tracker,omitempty"`
	TotalUploaded    int64         `json:"total_uploaded"`
	TotalDownloaded  int64         `json:"total_downloaded"`
	Cached           bool          `json:"cached"`
	Owner            string        `json:"owner"`
	SeedTorrent      bool          `json:"seed_torrent"`
	AllowZipped      bool          `json:"allow_zipped"`
	LongTermSeeding  bool          `json:"long_term_seeding"`
	TrackerMessage   string        `json:"tracker_message,omitempty"`
}

// QueuedTorrent is a torrent waiting for a free download slot.
type QueuedTorrent struct {
	ID          int       `json:"id"`
	AuthID      string    `json:"auth_id"`
	CreatedAt   time.Time `json:"created_at"`
	Magnet      string    `json:"magnet"`
	TorrentFile *string   `json:"torrent_file"`
	Hash        string    `json:"hash"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
}

// TorrentAddResult is returned when a torrent is created.
type TorrentAddResult struct {
	Hash      string `json:"hash,omitempty"`
	TorrentID int    `json:"torrent_id,omitempty"`
	AuthID    string `json:"auth_id,omitempty"`
}

// AvailableTorrentFile is a file listed by a cached-availability lookup.
type AvailableTorrentFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// AvailableTorrent is a torrent already present in the TorBox cache.
type AvailableTorrent struct {
	Name  string                 `json:"name"`
	Size  int64                  `json:"size"`
	Hash  string                 `json:"hash"`
	Files []AvailableTorrentFile `json:"files,omitempty"`
}

// UsenetFile is a file within a usenet download.
type UsenetFile struct {
	ID           int    `json:"id"`
	MD5          string `json:"md5"`
	Hash         string `json:"hash"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	S3Path       string `json:"s3_path"`
	MimeType     string `json:"mimetype"`
	ShortName    string `json:"short_name"`
	AbsolutePath string `json:"absolute_path"`
}

// UsenetInfo is a usenet download in the user's list.
type UsenetInfo struct {
	ID               int          `json:"id"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	AuthID           uuid.UUID    `json:"auth_id"`
	Name             string       `json:"name"`
	Hash             string       `json:"hash"`
	DownloadState    string       `json:"download_state"`
	DownloadSpeed    int64        `json:"download_speed"`
	OriginalURL      string       `json:"original_url"`
	ETA              int64        `json:"eta"`
	Progress         float64      `json:"progress"`
	Size             int64        `json:"size"`
	DownloadID       string       `json:"download_id"`
	Files            []UsenetFile `json:"files,omitempty"`
	Active           bool         `json:"active"`
	Cached           bool         `json:"cached"`
	DownloadPresent  bool         `json:"download_present"`
	DownloadFinished bool         `json:"download_finished"`
}

// UsenetAddResult is returned when a usenet download is created.
type UsenetAddResult struct {
	Hash             string `json:"hash,omitempty"`
	UsenetDownloadID int    `json:"usenetdownload_id,omitempty"`
	AuthID           string `json:"auth_id,omitempty"`
}

// AvailableUsenet is a usenet download already present in the TorBox cache.
type AvailableUsenet struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Hash string `json:"hash"`
}

// UserSettings holds the account settings returned with user/me?settings=true.
type UserSettings struct {
	EmailNotifications       *bool   `json:"email_notifications,omitempty"`
	WebNotifications         *bool   `json:"web_notifications,omitempty"`
	MobileNotifications      *bool   `json:"mobile_notifications,omitempty"`
	RSSNotifications         *bool   `json:"rss_notifications,omitempty"`
	DownloadSpeedInTab       *bool   `json:"download_speed_in_tab,omitempty"`
	ShowTrackerInTorrent     *bool   `json:"show_tracker_in_torrent,omitempty"`
	StremioQuality           []int   `json:"stremio_quality,omitempty"`
	StremioResolution        []int   `json:"stremio_resolution,omitempty"`
	StremioLanguage          []int   `json:"stremio_language,omitempty"`
	StremioCache             []int   `json:"stremio_cache,omitempty"`
	StremioSizeLower         *int64  `json:"stremio_size_lower,omitempty"`
	StremioSizeUpper         *int64  `json:"stremio_size_upper,omitempty"`
	GoogleDriveFolderID      *string `json:"google_drive_folder_id,omitempty"`
	OneDriveSavePath         *string `json:"onedrive_save_path,omitempty"`
	DiscordID                *string `json:"discord_id,omitempty"`
	DiscordNotifications     *bool   `json:"discord_notifications,omitempty"`
	StremioAllowAdult        *bool   `json:"stremio_allow_adult,omitempty"`
	WebDAVFlatten            *bool   `json:"webdav_flatten,omitempty"`
	StremioSeedTorrents      *int    `json:"stremio_seed_torrents,omitempty"`
	SeedTorrents             *int    `json:"seed_torrents,omitempty"`
	AllowZipped              *bool   `json:"allow_zipped,omitempty"`
	StremioAllowZipped       *bool   `json:"stremio_allow_zipped,omitempty"`
	OneFichierFolderID       *string `json:"onefichier_folder_id,omitempty"`
	GoFileFolderID           *string `json:"gofile_folder_id,omitempty"`
	JDownloaderNotifications *bool   `json:"jdownloader_notifications,omitempty"`
	WebhookNotifications     *bool   `json:"webhook_notifications,omitempty"`
	WebhookURL               *string `json:"webhook_url,omitempty"`
	TelegramNotifications    *bool   `json:"telegram_notifications,omitempty"`
	TelegramID               *string `json:"telegram_id,omitempty"`
	MegaEmail                *string `json:"mega_email,omitempty"`
	MegaPassword             *string `json:"mega_password,omitempty"`
}

// User is the authenticated TorBox account.
type User struct {
	ID                        int           `json:"id,omitempty"`
	AuthID                    *uuid.UUID    `json:"auth_id,omitempty"`
	CreatedAt                 *time.Time    `json:"created_at,omitempty"`
	UpdatedAt                 *time.Time    `json:"updated_at,omitempty"`
	Plan                      int           `json:"plan,omitempty"`
	TotalDownloaded           int64         `json:"total_downloaded,omitempty"`
	Customer                  string        `json:"customer,omitempty"`
	IsSubscribed              bool          `json:"is_subscribed,omitempty"`
	PremiumExpiresAt          *time.Time    `json:"premium_expires_at,omitempty"`
	CooldownUntil             *time.Time    `json:"cooldown_until,omitempty"`
	Email                     string        `json:"email,omitempty"`
	UserReferral              *uuid.UUID    `json:"user_referral,omitempty"`
	BaseEmail                 string        `json:"base_email,omitempty"`
	TotalBytesDownloaded      int64         `json:"total_bytes_downloaded,omitempty"`
	TotalBytesUploaded        int64         `json:"total_bytes_uploaded,omitempty"`
	TorrentsDownloaded        int           `json:"torrents_downloaded,omitempty"`
	WebDownloadsDownloaded    int           `json:"web_downloads_downloaded,omitempty"`
	UsenetDownloadsDownloaded int           `json:"usenet_downloads_downloaded,omitempty"`
	AdditionalConcurrentSlots int           `json:"additional_concurrent_slots,omitempty"`
	LongTermSeeding           bool          `json:"long_term_seeding,omitempty"`
	LongTermStorage           bool          `json:"long_term_storage,omitempty"`
	Settings                  *UserSettings `json:"settings,omitempty"`
}

// NewResponse returns an empty envelope, used when the service sends no body.
func NewResponse[T any]() *Response[T] {
	return &Response[T]{}
}
