package domain

import "errors"

// Common domain errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account errors
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountInactive  = errors.New("account is inactive")
	ErrEmailTaken       = errors.New("email already registered")
	ErrNinTaken         = errors.New("nin already registered")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrInvalidRole      = errors.New("invalid role")
	ErrPasswordChanged  = errors.New("password changed after token was issued")
	ErrSuperAdminTarget = errors.New("cannot modify super_admin account")
)

// Child record errors
var (
	ErrChildNotFound  = errors.New("child record not found")
	ErrBirthCertTaken = errors.New("birth certificate number already registered")
)

// File errors
var (
	ErrFileNotFound = errors.New("file not found")
)
