package ast

//go:generate go run ../cmd/solar-astgen nodes.decl kinds_gen.go ast
