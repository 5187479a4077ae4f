// Method/opcode input for the CLI comes from a JSON fixture file: the
// bytecode loader proper is an out-of-scope external collaborator
// (spec.md §1), so the CLI's own job is only to decode whatever a
// harness hands it into the bytecode package's types and wire up an
// in-memory bytecode.Loader over it — the same "decode a flat JSON/
// text description into the real in-memory representation" step
// sentra's own commands.BuildCommand performs for its compile units.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Edvold/jpamb-analyzer/internal/bytecode"
)

// fixtureOpcode is the on-disk shape of one bytecode.Opcode.
type fixtureOpcode struct {
	Kind     string         `json:"kind"`
	Value    *fixtureConst  `json:"value,omitempty"`
	Local    int            `json:"local,omitempty"`
	Amount   int64          `json:"amount,omitempty"`
	Field    string         `json:"field,omitempty"`
	Op       string         `json:"op,omitempty"`
	Cond     string         `json:"cond,omitempty"`
	Target   int            `json:"target,omitempty"`
	Type     string         `json:"type,omitempty"`
	FromType string         `json:"fromType,omitempty"`
	Method   *fixtureMethod `json:"method,omitempty"`
	HasRet   bool           `json:"hasReturnValue,omitempty"`
}

type fixtureConst struct {
	Kind string `json:"kind"`
	Int  int64  `json:"int,omitempty"`
}

type fixtureMethod struct {
	Class      string   `json:"class"`
	Method     string   `json:"method"`
	Params     []string `json:"params"`
	ReturnType string   `json:"returnType,omitempty"`
}

// fixture is the on-disk shape of one run: a single method's opcodes
// and the concrete InputValueVector to seed offset 0's locals with
// (spec.md §6 "Input case").
type fixture struct {
	Method  fixtureMethod   `json:"method"`
	Opcodes []fixtureOpcode `json:"opcodes"`
	Inputs  []fixtureConst  `json:"inputs"`
}

var kindTable = map[string]bytecode.Kind{
	"push":           bytecode.Push,
	"load":           bytecode.Load,
	"store":          bytecode.Store,
	"dup":            bytecode.Dup,
	"get-field":      bytecode.GetField,
	"binary":         bytecode.Binary,
	"if-zero":        bytecode.IfZero,
	"if":             bytecode.If,
	"goto":           bytecode.Goto,
	"new-array":      bytecode.NewArray,
	"array-length":   bytecode.ArrayLength,
	"array-load":     bytecode.ArrayLoad,
	"array-store":    bytecode.ArrayStore,
	"invoke-virtual": bytecode.InvokeVirtual,
	"invoke-static":  bytecode.InvokeStatic,
	"invoke-special": bytecode.InvokeSpecial,
	"invoke-dynamic": bytecode.InvokeDynamic,
	"return":         bytecode.Return,
	"new":            bytecode.New,
	"throw":          bytecode.Throw,
	"cast":           bytecode.Cast,
	"incr":           bytecode.Incr,
}

var binOpTable = map[string]bytecode.BinOp{
	"add": bytecode.Add,
	"sub": bytecode.Sub,
	"mul": bytecode.Mul,
	"div": bytecode.Div,
	"rem": bytecode.Rem,
}

var condTable = map[string]bytecode.Cond{
	"eq": bytecode.Eq,
	"ne": bytecode.Ne,
	"lt": bytecode.Lt,
	"le": bytecode.Le,
	"gt": bytecode.Gt,
	"ge": bytecode.Ge,
}

func (c fixtureConst) toConst() (bytecode.Const, error) {
	if c.Kind == "" {
		return bytecode.Const{}, nil
	}
	switch c.Kind {
	case "int":
		return bytecode.IntLit(c.Int), nil
	case "bool":
		return bytecode.BoolLit(c.Int != 0), nil
	case "char":
		return bytecode.CharLit(rune(c.Int)), nil
	case "array":
		return bytecode.ArrayLit(), nil
	case "ref":
		return bytecode.RefLit(), nil
	default:
		return bytecode.Const{}, fmt.Errorf("fixture: unknown const kind %q", c.Kind)
	}
}

func (m fixtureMethod) toMethodID() bytecode.MethodID {
	return bytecode.MethodID{
		Class:      m.Class,
		Method:     m.Method,
		Params:     strings.Join(m.Params, ","),
		ReturnType: m.ReturnType,
	}
}

func (o fixtureOpcode) toOpcode() (bytecode.Opcode, error) {
	kind, ok := kindTable[o.Kind]
	if !ok {
		return bytecode.Opcode{}, fmt.Errorf("fixture: unknown opcode kind %q", o.Kind)
	}
	op := bytecode.Opcode{
		Kind:           kind,
		Local:          o.Local,
		Amount:         o.Amount,
		Field:          o.Field,
		Target:         o.Target,
		Type:           o.Type,
		FromType:       o.FromType,
		HasReturnValue: o.HasRet,
	}
	if o.Value != nil {
		c, err := o.Value.toConst()
		if err != nil {
			return bytecode.Opcode{}, err
		}
		op.Value = c
	}
	if o.Op != "" {
		binOp, ok := binOpTable[o.Op]
		if !ok {
			return bytecode.Opcode{}, fmt.Errorf("fixture: unknown binary op %q", o.Op)
		}
		op.Op = binOp
	}
	if o.Cond != "" {
		cond, ok := condTable[o.Cond]
		if !ok {
			return bytecode.Opcode{}, fmt.Errorf("fixture: unknown branch condition %q", o.Cond)
		}
		op.Cond = cond
	}
	if o.Method != nil {
		op.Method = o.Method.toMethodID()
	}
	return op, nil
}

// loadFixture reads path and returns the decoded method, its opcode
// list, and the input vector to seed offset 0 with.
func loadFixture(path string) (bytecode.MethodID, []bytecode.Opcode, []bytecode.Const, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return bytecode.MethodID{}, nil, nil, fmt.Errorf("reading fixture: %w", err)
	}

	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return bytecode.MethodID{}, nil, nil, fmt.Errorf("parsing fixture: %w", err)
	}

	ops := make([]bytecode.Opcode, len(fx.Opcodes))
	for i, fo := range fx.Opcodes {
		op, err := fo.toOpcode()
		if err != nil {
			return bytecode.MethodID{}, nil, nil, fmt.Errorf("opcode %d: %w", i, err)
		}
		ops[i] = op
	}

	inputs := make([]bytecode.Const, len(fx.Inputs))
	for i, fc := range fx.Inputs {
		c, err := fc.toConst()
		if err != nil {
			return bytecode.MethodID{}, nil, nil, fmt.Errorf("input %d: %w", i, err)
		}
		inputs[i] = c
	}

	return fx.Method.toMethodID(), ops, inputs, nil
}
