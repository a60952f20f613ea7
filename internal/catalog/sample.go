package catalog

// Sample returns the built-in demonstration catalog used when no catalog
// file is supplied to `filterchat ingest`. It models a wealth-management
// client book and exercises every control type the pipeline understands.
func Sample() []FilterDefinition {
	return []FilterDefinition{
		{
			ID:          "client_first_name",
			DisplayName: "Client First Name",
			Type:        "STRING",
			ControlType: "TEXT_INPUT",
			Category:    "Client",
			Description: "First name of the client",
			Operators:   []string{"EQUALS", "CONTAINS", "STARTS_WITH", "ENDS_WITH"},
			Keywords:    []string{"name", "client name", "first name"},
		},
		{
			ID:          "client_family_name",
			DisplayName: "Client Family Name",
			Type:        "STRING",
			ControlType: "TEXT_INPUT",
			Category:    "Client",
			Description: "Family name of the client",
			Operators:   []string{"EQUALS", "CONTAINS", "STARTS_WITH", "ENDS_WITH"},
			Keywords:    []string{"last name", "full name"},
		},
		{
			ID:          "client_email",
			DisplayName: "Client Email",
			Type:        "STRING",
			ControlType: "TEXT_INPUT",
			Category:    "Contact Information",
			Description: "Email address of the client",
			Operators:   []string{"EQUALS", "CONTAINS", "STARTS_WITH", "ENDS_WITH"},
			Keywords:    []string{"email", "contact", "email address", "mail"},
		},
		{
			ID:          "account_number",
			DisplayName: "Account Number",
			Type:        "STRING",
			ControlType: "TEXT_INPUT",
			Category:    "Account",
			Description: "Unique identifier for the client's account",
			Operators:   []string{"EQUALS", "STARTS_WITH", "CONTAINS"},
			Keywords:    []string{"account", "account ID", "number", "account number", "reference"},
		},
		{
			ID:          "client_age",
			DisplayName: "Client Age",
			Type:        "NUMBER",
			ControlType: "NUMBER_RANGE",
			Category:    "Client",
			Description: "Age of the client",
			Operators:   []string{"GREATER_THAN", "LESS_THAN", "EQUALS", "BETWEEN"},
			Keywords:    []string{"age", "years old", "older", "younger"},
		},
		{
			ID:          "marital_status",
			DisplayName: "Marital Status",
			Type:        "STRING",
			ControlType: "CHECKBOX",
			Category:    "Client",
			Description: "Marital status of the client",
			Options:     []string{"Single", "Married", "Divorced", "Widowed"},
			Keywords:    []string{"married", "single", "divorced", "widowed", "marital"},
		},
		{
			ID:          "last_contact_date",
			DisplayName: "Last Contact Date",
			Type:        "DATE",
			ControlType: "DATE_RANGE",
			Category:    "CRM Activities",
			Description: "Date of last contact with client",
			Operators:   []string{"WITHIN", "NOT_WITHIN", "EQUALS", "GREATER_THAN", "LESS_THAN"},
			Keywords:    []string{"contact", "last contacted", "communication", "outreach"},
		},
		{
			ID:          "account_balance",
			DisplayName: "Account Balance",
			Type:        "NUMBER",
			ControlType: "NUMBER_RANGE",
			Category:    "Account",
			Description: "Current account balance",
			Operators:   []string{"GREATER_THAN", "LESS_THAN", "EQUALS", "BETWEEN"},
			Keywords:    []string{"balance", "account value", "portfolio value", "assets"},
		},
		{
			ID:          "income_level",
			DisplayName: "Income Level",
			Type:        "NUMBER",
			ControlType: "NUMBER_RANGE",
			Category:    "Client",
			Description: "Annual income of the client",
			Operators:   []string{"GREATER_THAN", "LESS_THAN", "EQUALS", "BETWEEN"},
			Keywords:    []string{"income", "salary", "earnings", "annual income"},
		},
		{
			ID:          "investment_risk_tolerance",
			DisplayName: "Investment Risk Tolerance",
			Type:        "STRING",
			ControlType: "CHECKBOX",
			Category:    "Investment",
			Description: "Client's risk tolerance for investments",
			Options:     []string{"Conservative", "Moderate", "Aggressive"},
			Keywords:    []string{"risk", "tolerance", "conservative", "aggressive", "moderate"},
		},
	}
}
