// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator reports fields by their JSON names and
// adds two document validators used by the clinic API:
//
//   - cpf: 11 digits, punctuation allowed (123.456.789-09)
//   - cnpj: 14 digits, punctuation allowed (12.345.678/0001-95)
//
// Handlers turn a failure into a 400 response with per-field details:
//
//	type createPatientRequest struct {
//	    Name  string `json:"name" validate:"required,max=255"`
//	    Email string `json:"email" validate:"omitempty,email"`
//	    CPF   string `json:"cpf" validate:"omitempty,cpf"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apierror.WriteDetails(w, r, http.StatusBadRequest,
//	        apierror.KindValidation, verr.Message(), verr.Details())
//	    return
//	}
//
// Only format is checked; CPF and CNPJ check digits are not verified.
package validation
