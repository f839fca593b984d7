// Package batch genera números de lote para recepciones de mercancía.
//
// El número debe correlacionar unidades físicas con su momento de recepción y
// ser "suficientemente único": un snowflake (timestamp + nodo + secuencia)
// cumple ambas cosas sin coordinación entre instancias.
package batch

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator produce números de lote con prefijo fijo.
type Generator struct {
	node *snowflake.Node
}

// New construye el generador. nodeID debe ser único por instancia de la app
// (APP_NODE_ID) para que no haya colisiones entre réplicas.
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("batch: crear nodo snowflake: %w", err)
	}
	return &Generator{node: node}, nil
}

// Next devuelve un número de lote nuevo, p. ej. "LOT-1938475629384756224".
func (g *Generator) Next() string {
	return "LOT-" + g.node.Generate().String()
}
