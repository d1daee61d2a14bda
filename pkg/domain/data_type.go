package domain

import dErrors "datagov/pkg/domain-errors"

// DataType names a retention-managed record category. The set is closed: the
// retention engine dispatches on it and an unrecognized value in a stored
// policy is a configuration problem, logged and skipped rather than fatal.
type DataType string

const (
	DataTypeConversations DataType = "conversations"
	DataTypeMessages      DataType = "messages"
	DataTypeAppointments  DataType = "appointments"
	DataTypeLeads         DataType = "leads"
)

var validDataTypes = map[DataType]bool{
	DataTypeConversations: true,
	DataTypeMessages:      true,
	DataTypeAppointments:  true,
	DataTypeLeads:         true,
}

// ParseDataType constructs a DataType from external input.
func ParseDataType(s string) (DataType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "data type cannot be empty")
	}
	d := DataType(s)
	if !d.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported data type: "+s)
	}
	return d, nil
}

// IsValid checks the data type against the closed supported set.
func (d DataType) IsValid() bool {
	return validDataTypes[d]
}

func (d DataType) String() string {
	return string(d)
}
