package filesystem

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Exported constants.
const (
	// DefaultSFTPPort is used when an sftp:// URL has no port
	DefaultSFTPPort = 22
	// SFTPScheme prefixes remote paths
	SFTPScheme = "sftp://"
)

// Exported variables.
var (
	ErrInvalidSFTPURL = errors.New("invalid SFTP URL")
)

// ParsedPath represents either a local path or an SFTP URL.
type ParsedPath struct {
	IsRemote bool

	// For local paths
	LocalPath string

	// For SFTP paths
	Host string
	Port int
	User string
	Path string // Remote path
}

// String renders the parsed path for display; remote paths never include credentials.
func (p *ParsedPath) String() string {
	if !p.IsRemote {
		return p.LocalPath
	}

	return fmt.Sprintf("%s%s@%s/%s", SFTPScheme, p.User, net.JoinHostPort(p.Host, strconv.Itoa(p.Port)), p.Path)
}

// ParsePath detects whether a path is a local path or an SFTP URL.
// SFTP URLs have the format sftp://user@host:port/path, port defaulting to 22:
//   - sftp://joe@nas.local/photos        (relative to the remote home)
//   - sftp://joe@nas.local:2222//srv/dcim (absolute remote path)
//   - /media/joe/SD_CARD                  (local path)
func ParsePath(path string) (*ParsedPath, error) {
	if strings.HasPrefix(path, SFTPScheme) {
		return parseSFTPURL(path)
	}

	return &ParsedPath{
		IsRemote:  false,
		LocalPath: path,
	}, nil
}

// parseSFTPURL parses an SFTP URL into its components.
//
//nolint:cyclop // scheme, user, host, port and path are each validated
func parseSFTPURL(sftpURL string) (*ParsedPath, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSFTPURL, err)
	}

	if u.Scheme != "sftp" {
		return nil, fmt.Errorf("%w: expected sftp:// scheme, got %s://", ErrInvalidSFTPURL, u.Scheme)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("%w: must include username (sftp://user@host/path)", ErrInvalidSFTPURL)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: must include host", ErrInvalidSFTPURL)
	}

	port := DefaultSFTPPort

	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid port number: %w", ErrInvalidSFTPURL, err)
		}

		port = p
	}

	// sftp://user@host/path  -> relative to home directory
	// sftp://user@host//path -> absolute path /path
	// sftp://user@host       -> home directory
	remotePath := u.Path

	switch {
	case remotePath == "" || remotePath == "/":
		remotePath = "."
	case strings.HasPrefix(remotePath, "//"):
		remotePath = remotePath[1:]
	default:
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &ParsedPath{
		IsRemote: true,
		Host:     host,
		Port:     port,
		User:     u.User.Username(),
		Path:     remotePath,
	}, nil
}
