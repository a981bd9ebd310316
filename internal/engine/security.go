package engine

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Permissions selects what a reader opening the document with the user
// password may do. Everything not listed stays forbidden.
type Permissions struct {
	Print    bool
	Modify   bool
	Copy     bool
	Annotate bool
}

// flags renders the selection as PDF permission bits.
func (p Permissions) flags() model.PermissionFlags {
	f := model.PermissionsNone
	if p.Print {
		f |= model.PermissionFlags(1 << 2)
	}
	if p.Modify {
		f |= model.PermissionFlags(1 << 3)
	}
	if p.Copy {
		f |= model.PermissionFlags(1 << 4)
	}
	if p.Annotate {
		f |= model.PermissionFlags(1 << 5)
	}
	return f
}

// Protect encrypts the document with AES-256. The owner password falls
// back to the user password when empty, matching common viewer behavior.
func (e *Engine) Protect(doc []byte, userPW, ownerPW string, perms Permissions) ([]byte, error) {
	if userPW == "" {
		return nil, fmt.Errorf("%w: user password is required", ErrInvalidArgument)
	}
	if ownerPW == "" {
		ownerPW = userPW
	}

	conf := e.conf()
	conf.UserPW = userPW
	conf.OwnerPW = ownerPW
	conf.EncryptUsingAES = true
	conf.EncryptKeyLength = 256
	conf.Permissions = perms.flags()

	var buf bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(doc), &buf, conf); err != nil {
		return nil, classify(fmt.Errorf("failed to encrypt document: %w", err))
	}
	return buf.Bytes(), nil
}

// Unlock removes encryption. A wrong password yields ErrWrongPassword.
func (e *Engine) Unlock(doc []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}

	conf := e.conf()
	conf.UserPW = password
	conf.OwnerPW = password

	var buf bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(doc), &buf, conf); err != nil {
		return nil, classify(fmt.Errorf("failed to decrypt document: %w", err))
	}
	return buf.Bytes(), nil
}
