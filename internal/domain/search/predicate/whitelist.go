package predicate

// Table is a whitelisted table that advanced filters may reference.
type Table string

// Whitelisted tables.
const (
	Samples   Table = "samples"
	Molecules Table = "molecules"
	Residues  Table = "residues"
)

// tableRule describes which columns of a table can be filtered and how it joins samples.
type tableRule struct {
	columns map[string]struct{}
	// sampleFK means the table carries sample_id and joins with table.sample_id = samples.id.
	sampleFK bool
	// extKeys are the samples columns that may reference table.id.
	extKeys map[string]struct{}
}

var whitelist = map[Table]tableRule{
	Samples: {
		columns: set("name", "short_label", "external_label", "xref", "description", "location"),
	},
	Molecules: {
		columns: set("iupac_name", "sum_formular", "inchistring", "inchikey", "cano_smiles"),
		extKeys: set("molecule_id"),
	},
	Residues: {
		columns:  set("residue_type"),
		sampleFK: true,
	},
}

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// Whitelisted reports whether table.column may be filtered.
func Whitelisted(table, column string) bool {
	rule, ok := whitelist[Table(table)]
	if !ok {
		return false
	}
	_, ok = rule.columns[column]
	return ok
}

// Lookup resolves a whitelisted column. opt selects a JSON sub value where supported:
// samples.xref with opt "cas" is the cas entry of the xref document.
func Lookup(table, column, opt string) (Column, bool) {
	if !Whitelisted(table, column) {
		return Column{}, false
	}
	c := Column{table: Table(table), name: column}
	if Table(table) == Samples && column == "xref" && opt == "cas" {
		c.jsonPath = []string{"cas", "value"}
	}
	return c, true
}

// JoinFor returns the join of a whitelisted table onto samples. The samples table itself
// needs no join and reports ok=false with an empty Join. An ext key outside the table's
// rule is rejected.
func JoinFor(table Table, extKey string) (Join, bool) {
	rule, ok := whitelist[table]
	if !ok || table == Samples {
		return Join{}, false
	}
	if extKey != "" {
		if _, allowed := rule.extKeys[extKey]; !allowed {
			return Join{}, false
		}
		return Join{Table: table, On: "samples." + extKey + " = " + string(table) + ".id"}, true
	}
	if !rule.sampleFK {
		return Join{}, false
	}
	return Join{Table: table, On: string(table) + ".sample_id = samples.id"}, true
}

// Join is an INNER JOIN onto the primary samples scope.
type Join struct {
	Table Table
	On    string
}

// SQL renders the join clause.
func (j Join) SQL() string {
	return "INNER JOIN " + string(j.Table) + " ON " + j.On
}
