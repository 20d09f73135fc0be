package graphql

import "fmt"

// OptionType names the kind of an Option.
type OptionType string

const (
	optionTypeOperationName OptionType = "operation_name"
)

// Option tweaks a single request.
type Option interface {
	// Type returns the supported type of the renderer
	// available types: operation_name
	Type() OptionType
	// String returns the option value
	String() string
}

type operationNameOption struct {
	name string
}

func (o operationNameOption) Type() OptionType { return optionTypeOperationName }
func (o operationNameOption) String() string   { return o.name }

// OperationName selects the operation to run when a document is sent. It is
// also used to label logs, metrics and trace spans.
func OperationName(name string) Option {
	return operationNameOption{name: name}
}

type constructOptionsOutput struct {
	operationName string
}

func constructOptions(options []Option) (*constructOptionsOutput, error) {
	output := &constructOptionsOutput{}

	for _, option := range options {
		switch option.Type() {
		case optionTypeOperationName:
			output.operationName = option.String()
		default:
			return nil, fmt.Errorf("invalid query option type: %s", option.Type())
		}
	}

	return output, nil
}
